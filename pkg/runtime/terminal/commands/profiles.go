package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/license-atlas/pkg/services/registry"
)

type ProfilesCmd struct {
	registryPath string
}

func NewProfilesCmd(registryPath string) *cobra.Command {
	pc := &ProfilesCmd{registryPath: registryPath}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List configured Google Workspace domain profiles",
		RunE:  pc.run,
	}

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, args []string) error {
	reg, err := registry.NewRegistry(pc.registryPath)
	if err != nil {
		return fmt.Errorf("failed to open profile registry: %w", err)
	}

	profiles, err := reg.GetProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No domain profiles found in %s\n", pc.registryPath)
		return nil
	}

	for _, profile := range profiles {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (admin: %s)\n", profile.Name, profile.AdminSubject)
	}

	return nil
}
