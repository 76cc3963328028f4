package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/epiprofile/internal/cli/output"
	"github.com/leapstack-labs/epiprofile/internal/dashboard"
	"github.com/leapstack-labs/epiprofile/internal/profile"
)

// NewProfileCommand creates the profile command.
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the research profile",
		Long: `Print the profile shown at the top of the dashboard.

Without --profile the built-in profile is printed. Use it to check a
profile file before serving it.`,
		Example: `  # Print the built-in profile
  epiprofile profile

  # Check a profile file and print it as YAML
  epiprofile profile --profile me.yaml --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfile(cmd)
		},
	}

	return cmd
}

func runProfile(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	p, err := cmdCtx.LoadProfile()
	if err != nil {
		return err
	}

	if done, err := r.Encode(p); done {
		return err
	}

	renderProfile(r, p)
	return nil
}

func renderProfile(r *output.Renderer, p *profile.Profile) {
	r.Header(1, p.Name)
	r.Println(p.Subtitle())
	r.Println("")

	if p.About != "" {
		r.Header(2, "About")
		r.Println(p.About)
		r.Println("")
	}

	r.Header(2, "Core research areas")
	for _, a := range p.Areas {
		r.Println("- " + a)
	}
	r.Println("")

	if len(p.Metrics) > 0 {
		r.Header(2, "At-a-glance")
		for _, m := range p.Metrics {
			r.KeyValue(m.Label, m.Value)
		}
		r.Println("")
	}

	contact := dashboard.RenderContact(p)
	r.Header(2, "Contact")
	r.KeyValue("Email", contact.Email)
	r.KeyValue("Institution", contact.Institution)
	for _, l := range contact.Links {
		r.KeyValue(l.Label, l.URL)
	}
	if contact.Hint != "" {
		r.Muted(contact.Hint)
	}
}
