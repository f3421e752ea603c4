package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/chromekit/internal/domain/entity"
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Show or change the persisted reader style",
}

var styleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current reader style",
	RunE: func(cmd *cobra.Command, _ []string) error {
		style := app.Config.ReaderStyle()
		cmd.Printf("font:  %s\nsize:  %d\ntheme: %s\n",
			style.FontFamily, style.FontSize, style.Theme)
		return nil
	},
}

var (
	styleFont  string
	styleSize  int
	styleTheme string
)

var styleSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the reader style",
	RunE: func(cmd *cobra.Command, _ []string) error {
		style := app.Config.ReaderStyle()
		if cmd.Flags().Changed("font") {
			style.FontFamily = styleFont
		}
		if cmd.Flags().Changed("size") {
			style.FontSize = styleSize
		}
		if cmd.Flags().Changed("theme") {
			style.Theme = entity.ReaderTheme(styleTheme)
		}
		style = style.Normalize()

		if err := app.Config.SaveReaderStyle(style); err != nil {
			return fmt.Errorf("save reader style: %w", err)
		}
		cmd.Printf("saved: %s %d %s\n", style.FontFamily, style.FontSize, style.Theme)
		return nil
	},
}

func init() {
	styleSetCmd.Flags().StringVar(&styleFont, "font", "", "font family")
	styleSetCmd.Flags().IntVar(&styleSize, "size", 0, "font size")
	styleSetCmd.Flags().StringVar(&styleTheme, "theme", "", "theme: light, dark, sepia")

	styleCmd.AddCommand(styleShowCmd, styleSetCmd)
	rootCmd.AddCommand(styleCmd)
}
