package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/s0up4200/dipctl/dip"
)

type searchFunc func(ctx context.Context, filters dip.QueryFilters, limit int, format dip.Format) (*dip.Result, error)

// searchers maps each resource kind to its facade method
func searchers(c *dip.Client) map[dip.ResourceKind]searchFunc {
	return map[dip.ResourceKind]searchFunc{
		dip.ResourceActivity:            c.SearchActivities,
		dip.ResourceDocument:            c.SearchDocuments,
		dip.ResourceDocumentText:        c.SearchDocumentTexts,
		dip.ResourcePerson:              c.SearchPersons,
		dip.ResourcePlenaryProtocol:     c.SearchPlenaryProtocols,
		dip.ResourcePlenaryProtocolText: c.SearchPlenaryProtocolTexts,
		dip.ResourceProcedure:           c.SearchProcedures,
		dip.ResourceProcedureStep:       c.SearchProcedureSteps,
	}
}

// queryFlags holds the filter flags shared by search and export
type queryFlags struct {
	ids                 []string
	dateStart           string
	dateEnd             string
	updatedSince        string
	updatedUntil        string
	institution         string
	document            string
	plenaryProtocol     string
	process             string
	descriptors         []string
	subjectAreas        []string
	documentType        string
	processType         string
	processTypeNotation string
	titles              []string
	limit               int
	where               []string
	presets             []string
}

func (q *queryFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&q.ids, "id", nil, "entity id (repeatable)")
	fs.StringVar(&q.dateStart, "date-start", "", "earliest date, YYYY-MM-DD")
	fs.StringVar(&q.dateEnd, "date-end", "", "latest date, YYYY-MM-DD")
	fs.StringVar(&q.updatedSince, "updated-since", "", "updated at or after, YYYY-MM-DDTHH:MM:SS")
	fs.StringVar(&q.updatedUntil, "updated-until", "", "updated at or before, YYYY-MM-DDTHH:MM:SS")
	fs.StringVar(&q.institution, "institution", "", "institution: BT, BR, BV or EK")
	fs.StringVar(&q.document, "document", "", "related document id")
	fs.StringVar(&q.plenaryProtocol, "plenary-protocol", "", "related plenary protocol id")
	fs.StringVar(&q.process, "process", "", "related procedure id")
	fs.StringSliceVar(&q.descriptors, "descriptor", nil, "descriptor (repeatable)")
	fs.StringSliceVar(&q.subjectAreas, "subject-area", nil, "subject area (repeatable)")
	fs.StringVar(&q.documentType, "document-type", "", "document type, e.g. Antrag")
	fs.StringVar(&q.processType, "process-type", "", "procedure type, e.g. Gesetzgebung")
	fs.StringVar(&q.processTypeNotation, "process-type-notation", "", "procedure type notation")
	fs.StringSliceVar(&q.titles, "title", nil, "title search term (repeatable)")
	fs.IntVarP(&q.limit, "limit", "n", 0, "maximum number of records (default dip.page_limit)")
	fs.StringArrayVarP(&q.where, "where", "w", nil, "client-side filter expression (repeatable)")
	fs.StringSliceVarP(&q.presets, "preset", "p", nil, "filter preset from config (repeatable)")
}

// filters converts the flags into query filters
func (q *queryFlags) filters() dip.QueryFilters {
	return dip.QueryFilters{
		IDs:                 q.ids,
		DateStart:           q.dateStart,
		DateEnd:             q.dateEnd,
		UpdatedSince:        q.updatedSince,
		UpdatedUntil:        q.updatedUntil,
		Institution:         dip.Institution(strings.ToUpper(q.institution)),
		DocumentID:          q.document,
		PlenaryProtocolID:   q.plenaryProtocol,
		ProcessID:           q.process,
		Descriptors:         q.descriptors,
		SubjectAreas:        q.subjectAreas,
		DocumentType:        q.documentType,
		ProcessType:         q.processType,
		ProcessTypeNotation: q.processTypeNotation,
		Titles:              q.titles,
	}
}

// filterRefs returns the client-side filters, presets as "@name"
func (q *queryFlags) filterRefs() []string {
	refs := make([]string, 0, len(q.presets)+len(q.where))
	for _, p := range q.presets {
		refs = append(refs, "@"+p)
	}
	return append(refs, q.where...)
}

func (q *queryFlags) effectiveLimit() int {
	if q.limit != 0 {
		return q.limit
	}
	return cfg.DIP.PageLimit
}

// runQuery executes the search and applies the client-side filters
func runQuery(ctx context.Context, c *dip.Client, kind dip.ResourceKind, q *queryFlags) (*dip.Result, error) {
	searchFn, ok := searchers(c)[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported resource: %s", kind)
	}

	result, err := searchFn(ctx, q.filters(), q.effectiveLimit(), dip.FormatJSON)
	if err != nil {
		return nil, err
	}

	if refs := q.filterRefs(); len(refs) > 0 && !result.NoData() {
		before := len(result.Records)
		result.Records, err = filters.Apply(ctx, refs, result.Records)
		if err != nil {
			return nil, fmt.Errorf("failed to apply filters: %w", err)
		}
		logger.Debug().
			Str("resource", kind.String()).
			Int("before", before).
			Int("after", len(result.Records)).
			Msg("Applied client-side filters")
	}

	return result, nil
}

var searchFlags queryFlags

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <resource>",
	Short: "Search a DIP resource",
	Long: `Search one of the DIP resources. The resource is given by its API name or its
English name: aktivitaet (activity), drucksache (document), drucksache-text
(document-fulltext), person, plenarprotokoll (plenary-protocol),
plenarprotokoll-text (plenary-protocol-fulltext), vorgang (procedure) or
vorgangsposition (procedure-step).`,
	Example: `  dipctl search procedure --descriptor Klimaschutz --date-start 2023-01-01
  dipctl search vorgangsposition --process 304281 -o table
  dipctl search vorgang --where 'inPeriod(20) and hasInitiative("Bundesregierung")'`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchFlags.register(searchCmd.Flags())
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, err := dip.ParseResourceKind(args[0])
	if err != nil {
		return err
	}

	logger.Info().
		Str("resource", kind.String()).
		Int("limit", searchFlags.effectiveLimit()).
		Msg("Searching")

	result, err := runQuery(cmd.Context(), client, kind, &searchFlags)
	if err != nil {
		return err
	}

	if result.NoData() {
		fmt.Println("No data was returned.")
		return nil
	}

	logger.Info().
		Int("num_found", result.NumFound).
		Int("records", result.Len()).
		Int("pages", result.Pages).
		Msg("Search completed")

	return render(os.Stdout, kind, result.Records, cfg.Output.Format, formatOptions())
}
