package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/podsmith/internal/app"
	"github.com/okian/podsmith/internal/config"
	"github.com/okian/podsmith/internal/domain/report"
	"github.com/okian/podsmith/pkg/logger"
)

var generateOpts struct {
	roster    string
	tolerance string
	mode      string
	scale     string
	json      bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assign a roster file to pods and print them",
	RunE:  generate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&generateOpts.roster, "roster", "r", "", "YAML roster file")
	f.StringVar(&generateOpts.tolerance, "tolerance", "", "exact, lenient or super_lenient (overrides the roster file)")
	f.StringVar(&generateOpts.mode, "mode", "", "balanced or avoid_five (overrides the roster file)")
	f.StringVar(&generateOpts.scale, "scale", "", "numeric or bracket (overrides the roster file)")
	f.BoolVar(&generateOpts.json, "json", false, "print the report as JSON")
	_ = generateCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(generateCmd)
}

func generate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	roster, err := config.LoadRoster(generateOpts.roster)
	if err != nil {
		return err
	}

	svc, err := newService(cfg, logger.Get())
	if err != nil {
		return err
	}
	rep, err := svc.GenerateFrom(ctx, previewFromRoster(roster))
	if err != nil {
		return err
	}

	if generateOpts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printReport(cmd.OutOrStdout(), rep)
	return nil
}

func previewFromRoster(r *config.Roster) app.PreviewRequest {
	req := app.PreviewRequest{
		Participants: make([]app.ParticipantInput, 0, len(r.Participants)),
		Settings: app.Settings{
			Tolerance: pick(generateOpts.tolerance, r.Tolerance),
			Mode:      pick(generateOpts.mode, r.Mode),
			Scale:     pick(generateOpts.scale, r.Scale),
		},
	}
	for _, p := range r.Participants {
		req.Participants = append(req.Participants, app.ParticipantInput{
			ID:      p.ID,
			Name:    p.Name,
			Tiers:   p.Tiers,
			GroupID: p.Group,
		})
	}
	return req
}

func pick(flag, file string) string {
	if flag != "" {
		return flag
	}
	return file
}

// printReport writes a plain text rendering of rep.
func printReport(w io.Writer, rep report.Report) {
	fmt.Fprintf(w, "plan %v  tolerance %s  scale %s\n", rep.Plan, rep.Tolerance, rep.Scale)
	for _, p := range rep.Pods {
		fmt.Fprintf(w, "\nPod %d  (%d players, power %s, avg %.1f)\n", p.Number, p.Size, p.Shared, p.AveragePower)
		for _, u := range p.Units {
			writeUnit(w, u)
		}
	}
	if len(rep.Unassigned) > 0 {
		fmt.Fprintf(w, "\nUnassigned (%d)\n", rep.UnassignedCount)
		for _, u := range rep.Unassigned {
			writeUnit(w, u)
		}
	}
}

func writeUnit(w io.Writer, u report.Unit) {
	prefix := "  "
	if u.Group {
		fmt.Fprintf(w, "  group %s\n", u.Key)
		prefix = "    "
	}
	for _, m := range u.Members {
		tiers := make([]string, 0, len(m.Tiers))
		for _, t := range m.Tiers {
			if t.InUse {
				tiers = append(tiers, "["+t.Label+"]")
				continue
			}
			tiers = append(tiers, t.Label)
		}
		fmt.Fprintf(w, "%s%s  %s\n", prefix, m.Name, strings.Join(tiers, " "))
	}
}
