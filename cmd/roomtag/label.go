package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag"
	"github.com/aretw0/roomtag/pkg/dialog"
)

var (
	labelName    string
	labelDesc    string
	labelColor   string
	labelPreset  int
	labelOpacity float64
	labelFont    int
	labelOffset  string
	labelHidden  bool
	labelIcon    bool
	labelReset   bool
)

var labelCmd = &cobra.Command{
	Use:   "label <map> <x> <z>",
	Short: "Edit the label of the zone or room at a cell",
	Long: `Edit the label of the zone at the cell or, if there is none, of the room.
Only the flags given are changed. Doorways and outdoor areas cannot be labeled.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cell, err := parseCellArgs(args[1], args[2])
		if err != nil {
			fatal("Invalid cell", err)
		}

		var edits []roomtag.Edit
		flags := cmd.Flags()
		if labelReset {
			edits = append(edits, func(s *dialog.Session) error { s.Reset(); return nil })
		}
		if flags.Changed("name") {
			edits = append(edits, func(s *dialog.Session) error { s.SetName(labelName); return nil })
		}
		if flags.Changed("desc") {
			edits = append(edits, func(s *dialog.Session) error { s.SetDescription(labelDesc); return nil })
		}
		if flags.Changed("color") {
			edits = append(edits, func(s *dialog.Session) error {
				if labelColor == "" {
					s.SetColor(nil)
					return nil
				}
				c, err := parseColor(labelColor)
				if err != nil {
					return err
				}
				s.SetColor(&c)
				return nil
			})
		}
		if flags.Changed("preset") {
			edits = append(edits, func(s *dialog.Session) error { return s.UsePreset(labelPreset) })
		}
		if flags.Changed("opacity") {
			edits = append(edits, func(s *dialog.Session) error { s.SetOpacity(labelOpacity); return nil })
		}
		if flags.Changed("font") {
			edits = append(edits, func(s *dialog.Session) error { s.SetFontSize(labelFont); return nil })
		}
		if flags.Changed("offset") {
			edits = append(edits, func(s *dialog.Session) error {
				x, y, err := parseVec(labelOffset)
				if err != nil {
					return err
				}
				s.SetOffset(x, y)
				return nil
			})
		}
		if flags.Changed("hidden") {
			edits = append(edits, func(s *dialog.Session) error { s.SetVisible(!labelHidden); return nil })
		}
		if flags.Changed("icon") {
			edits = append(edits, func(s *dialog.Session) error { s.SetShowIcon(labelIcon); return nil })
		}

		svc, _ := openService()
		defer svc.Close()

		session, err := svc.Label(context.Background(), args[0], cell, edits...)
		if err != nil {
			fatal("Failed to edit label", err)
		}

		rec := session.Record()
		fmt.Printf("%s at %s\n", session.Title(), cell)
		fmt.Printf("  name:        %q\n", rec.CustomName)
		fmt.Printf("  description: %q\n", rec.CustomDescription)
		fmt.Printf("  visible:     %t  icon: %t\n", !rec.Hidden, rec.ShowIcon)
		fmt.Printf("  opacity:     %.2f  font: %d  offset: %.1f,%.1f\n", rec.Opacity, rec.FontSize, rec.Offset.X, rec.Offset.Y)
		if preset := session.SelectedPreset(); preset >= 0 {
			fmt.Printf("  color:       preset %d\n", preset)
		}
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
	f := labelCmd.Flags()
	f.StringVar(&labelName, "name", "", "Custom name (empty clears)")
	f.StringVar(&labelDesc, "desc", "", "Custom description (empty clears)")
	f.StringVar(&labelColor, "color", "", "Custom color as #rrggbb or r,g,b (empty clears)")
	f.IntVar(&labelPreset, "preset", 0, fmt.Sprintf("Use preset color 0-%d", len(dialog.Presets)-1))
	f.Float64Var(&labelOpacity, "opacity", 0.5, "Opacity 0.1-1")
	f.IntVar(&labelFont, "font", 0, "Font size 8-60, 0 for the default")
	f.StringVar(&labelOffset, "offset", "0,0", "Label offset as x,y within ±3")
	f.BoolVar(&labelHidden, "hidden", false, "Hide the label")
	f.BoolVar(&labelIcon, "icon", true, "Show the icon")
	f.BoolVar(&labelReset, "reset", false, "Reset to defaults before applying the other flags")
}
