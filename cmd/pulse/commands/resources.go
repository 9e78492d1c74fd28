package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/internal/operations"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
	"github.com/fivetwenty-io/pulse/pkg/pulseclient"
)

// ResourceInfo lists the operations available on a resource.
type ResourceInfo struct {
	Resource   pulse.ResourceType `json:"resource"   yaml:"resource"`
	Client     bool               `json:"client"     yaml:"client"`
	Operations []string           `json:"operations" yaml:"operations"`
}

// NewResourcesCommand creates the resources command.
func NewResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "resources",
		Aliases: []string{"resource", "res"},
		Short:   "List resources and their operations",
		Long:    "List every resource the CLI can run operations on, with the operation names accepted by 'pulse run'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := listResources()

			switch outputFormat() {
			case constants.FormatJSON:
				return renderJSON(cmd.OutOrStdout(), infos)
			case constants.FormatYAML:
				return renderYAML(cmd.OutOrStdout(), infos)
			default:
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.Header("Resource", "Client", "Operations")

				for _, info := range infos {
					client := "base"
					if info.Client {
						client = string(info.Resource)
					}

					_ = table.Append(string(info.Resource), client, strings.Join(info.Operations, ", "))
				}

				err := table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func listResources() []ResourceInfo {
	registered := pulseclient.ResourceTypes()
	resources := operations.Resources()
	infos := make([]ResourceInfo, 0, len(resources))

	for _, resource := range resources {
		infos = append(infos, ResourceInfo{
			Resource:   resource,
			Client:     slices.Contains(registered, resource),
			Operations: operations.Names(resource),
		})
	}

	return infos
}
