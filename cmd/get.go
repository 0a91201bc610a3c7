package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/dipctl/dip"
)

type getFunc func(ctx context.Context, format dip.Format, ids ...int64) (*dip.Result, error)

// getters maps each resource kind to its by-id facade method
func getters(c *dip.Client) map[dip.ResourceKind]getFunc {
	return map[dip.ResourceKind]getFunc{
		dip.ResourceActivity:            c.GetActivities,
		dip.ResourceDocument:            c.GetDocuments,
		dip.ResourceDocumentText:        c.GetDocumentTexts,
		dip.ResourcePerson:              c.GetPersons,
		dip.ResourcePlenaryProtocol:     c.GetPlenaryProtocols,
		dip.ResourcePlenaryProtocolText: c.GetPlenaryProtocolTexts,
		dip.ResourceProcedure:           c.GetProcedures,
		dip.ResourceProcedureStep:       c.GetProcedureSteps,
	}
}

var withSteps bool

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <resource> <id>...",
	Short: "Fetch DIP records by id",
	Example: `  dipctl get procedure 304281 --steps
  dipctl get person 7 4417 -o json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVar(&withSteps, "steps", false, "also list the steps of each procedure")
}

func runGet(cmd *cobra.Command, args []string) error {
	kind, err := dip.ParseResourceKind(args[0])
	if err != nil {
		return err
	}

	ids, err := parseIDs(args[1:])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	result, err := getters(client)[kind](ctx, dip.FormatJSON, ids...)
	if err != nil {
		return err
	}

	if result.NoData() {
		fmt.Println("No data was returned.")
		return nil
	}

	if err := render(os.Stdout, kind, result.Records, cfg.Output.Format, formatOptions()); err != nil {
		return err
	}

	if withSteps && kind == dip.ResourceProcedure {
		return printSteps(ctx, result.Records)
	}
	return nil
}

// printSteps fetches and prints the steps of every procedure in records
func printSteps(ctx context.Context, records []json.RawMessage) error {
	objects, err := dip.MapRecords(dip.ResourceProcedure, records)
	if err != nil {
		return err
	}

	for _, e := range dip.SortedEntities(objects) {
		proc := e.(*dip.Procedure)
		steps, err := client.FetchProcedureSteps(ctx, proc)
		if err != nil {
			return err
		}

		entities := make([]dip.Entity, len(steps))
		for i := range steps {
			entities[i] = &steps[i]
		}
		fmt.Printf("\nSteps of %s", proc)
		fmt.Print(formatter.FormatEntities(dip.ResourceProcedureStep, entities, formatOptions()))
	}
	return nil
}

// parseIDs converts command line ids into integers
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("invalid id '%s': must be a non-negative integer", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
