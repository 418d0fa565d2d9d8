package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/wire"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage compression profiles",
	Long:  "Create, list, activate, and delete compression profiles. Exactly one profile is active and drives every run.",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new profile (reuses an identical existing one)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		depth, _ := cmd.Flags().GetInt("depth")
		replace, _ := cmd.Flags().GetBool("replace")
		level, _ := cmd.Flags().GetInt("level")
		backendID, _ := cmd.Flags().GetInt64("backend")
		minSaving, _ := cmd.Flags().GetInt64("min-saving")
		timeout, _ := cmd.Flags().GetInt("timeout")
		interval, _ := cmd.Flags().GetInt("pacing-interval")
		pause, _ := cmd.Flags().GetInt("pacing-pause")
		ocrPages, _ := cmd.Flags().GetInt("ocr-max-pages")
		ceiling, _ := cmd.Flags().GetFloat64("max-kb-per-page")
		note, _ := cmd.Flags().GetString("note")
		activate, _ := cmd.Flags().GetBool("activate")

		req := primary.CreateProfileRequest{
			MaxDepth:         depth,
			ReplaceOriginal:  replace,
			CompressionLevel: level,
			BackendID:        backendID,
			MinSavingBytes:   minSaving,
			FileTimeoutSecs:  timeout,
			PacingInterval:   interval,
			PacingPauseSecs:  pause,
			OCRMaxPages:      ocrPages,
			Note:             note,
			Activate:         activate,
		}
		if cmd.Flags().Changed("max-kb-per-page") {
			req.MaxKBPerPage = &ceiling
		}

		profile, err := wire.ProfileService().Create(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		fmt.Printf("✓ Profile %d ready\n", profile.ID)
		printProfile(profile)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := wire.ProfileService().List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}

		if len(profiles) == 0 {
			fmt.Println("No profiles found")
			return nil
		}

		fmt.Printf("Found %d profile(s):\n\n", len(profiles))
		for _, p := range profiles {
			marker := " "
			if p.IsActive {
				marker = "*"
			}
			fmt.Printf("%s %-4d level=%d backend=%s min-saving=%dB timeout=%ds records=%d",
				marker, p.ID, p.CompressionLevel, p.BackendName,
				p.MinSavingBytes, p.FileTimeoutSecs, p.RecordCount)
			if p.Note != "" {
				fmt.Printf("  (%s)", p.Note)
			}
			fmt.Println()
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := wire.ProfileService().GetActive(context.Background())
		if err != nil {
			return err
		}
		printProfile(profile)
		return nil
	},
}

var profileActivateCmd = &cobra.Command{
	Use:   "activate [id]",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid profile id %q", args[0])
		}
		if err := wire.ProfileService().Activate(context.Background(), id); err != nil {
			return fmt.Errorf("failed to activate profile: %w", err)
		}
		fmt.Printf("✓ Profile %d is now active\n", id)
		return nil
	},
}

var profileNoteCmd = &cobra.Command{
	Use:   "note [id] [text]",
	Short: "Set a profile's note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid profile id %q", args[0])
		}
		if err := wire.ProfileService().UpdateNote(context.Background(), id, args[1]); err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}
		fmt.Printf("✓ Updated note for profile %d\n", id)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an inactive, unreferenced profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid profile id %q", args[0])
		}
		if err := wire.ProfileService().Delete(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		fmt.Printf("✓ Deleted profile %d\n", id)
		return nil
	},
}

func printProfile(p *primary.Profile) {
	fmt.Printf("Profile %d", p.ID)
	if p.IsActive {
		fmt.Printf(" (active)")
	}
	fmt.Println()
	depth := fmt.Sprintf("%d", p.MaxDepth)
	if p.MaxDepth < 0 {
		depth = "unlimited"
	}
	fmt.Printf("  Depth:           %s\n", depth)
	fmt.Printf("  Replace:         %v\n", p.ReplaceOriginal)
	fmt.Printf("  Level:           %d\n", p.CompressionLevel)
	fmt.Printf("  Backend:         %s (%d)\n", p.BackendName, p.BackendID)
	fmt.Printf("  Min saving:      %d bytes\n", p.MinSavingBytes)
	fmt.Printf("  File timeout:    %d seconds\n", p.FileTimeoutSecs)
	fmt.Printf("  Pacing:          pause %ds every %d files\n", p.PacingPauseSecs, p.PacingInterval)
	fmt.Printf("  OCR page limit:  %d\n", p.OCRMaxPages)
	if p.MaxKBPerPage != nil {
		fmt.Printf("  Page size floor: %.1f KB/page\n", *p.MaxKBPerPage)
	}
	if p.Note != "" {
		fmt.Printf("  Note:            %s\n", p.Note)
	}
	fmt.Printf("  Records:         %d\n", p.RecordCount)
}

func init() {
	f := profileCreateCmd.Flags()
	f.Int("depth", -1, "Directory depth (-1 = unlimited, 0 = root only)")
	f.Bool("replace", true, "Replace originals in place")
	f.Int("level", 2, "Compression level 1-3")
	f.Int64("backend", 1, "Backend id (see doctor for catalog)")
	f.Int64("min-saving", 1024, "Minimum saving in bytes to keep a result")
	f.Int("timeout", 35, "Per-file timeout in seconds")
	f.Int("pacing-interval", 350, "Files between pacing pauses")
	f.Int("pacing-pause", 9, "Pacing pause in seconds")
	f.Int("ocr-max-pages", 120, "Page ceiling for OCR backends")
	f.Float64("max-kb-per-page", 0, "Skip files already under this KB/page average")
	f.String("note", "", "Free-text note")
	f.Bool("activate", false, "Activate the profile after creating it")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileActivateCmd)
	profileCmd.AddCommand(profileNoteCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

// ProfileCmd returns the profile command
func ProfileCmd() *cobra.Command {
	return profileCmd
}
