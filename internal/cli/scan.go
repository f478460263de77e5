package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/govscan/internal/domain/model"
)

func newScanCmd() *cobra.Command {
	var (
		flags  pipelineFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch repositories and print the filtered table with insights",
		Example: `  govscanctl scan --language Go --year 2024
  govscanctl scan --csv repos.csv --org alphagov --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := flags.run(cmd)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			writeTable(cmd.OutOrStdout(), res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	return cmd
}

// writeTable prints the rows, then the insights or the no-data message.
func writeTable(w io.Writer, res *result) {
	if len(res.rows) == 0 {
		fmt.Fprintf(w, "Total repositories: %d\n", res.insights.Total)
		fmt.Fprintln(w, model.NoDataMessage)
		return
	}

	header := []string{"Name", "Org", "Language", "Stars", "Updated", "Country"}
	if res.classified {
		header = append(header, "Category")
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	for _, r := range res.rows {
		row := []string{
			r.Name,
			r.Org,
			r.Language,
			strconv.Itoa(r.Stars),
			r.UpdatedAt.UTC().Format("2006-01-02"),
			string(r.Country),
		}
		if res.classified {
			row = append(row, string(r.Category))
		}
		table.Append(row)
	}
	table.Render()

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.Append([]string{"Total repositories", strconv.Itoa(res.insights.Total)})
	summary.Append([]string{"Most common language", orNA(res.insights.MostCommonLanguage)})
	summary.Append([]string{"Latest update", res.insights.LatestUpdateDate()})
	summary.Render()
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

type jsonRecord struct {
	Name        string  `json:"name"`
	Org         string  `json:"org"`
	Language    *string `json:"language"`
	Description *string `json:"description"`
	Stars       int     `json:"stars"`
	UpdatedAt   string  `json:"updated_at"`
	Year        int     `json:"year"`
	URL         string  `json:"url,omitempty"`
	Country     string  `json:"country"`
	Category    string  `json:"category,omitempty"`
}

type jsonInsights struct {
	Total              int    `json:"total"`
	MostCommonLanguage string `json:"most_common_language,omitempty"`
	LatestUpdate       string `json:"latest_update,omitempty"`
	Message            string `json:"message,omitempty"`
}

type jsonWarning struct {
	Org        string `json:"org"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

type jsonOutput struct {
	Source    string        `json:"source"`
	FetchedAt string        `json:"fetched_at"`
	Repos     []jsonRecord  `json:"repos"`
	Insights  jsonInsights  `json:"insights"`
	Warnings  []jsonWarning `json:"warnings"`
}

func writeJSON(w io.Writer, res *result) error {
	out := jsonOutput{
		Source:    res.dataset.Source,
		FetchedAt: res.dataset.FetchedAt.UTC().Format(time.RFC3339),
		Repos:     make([]jsonRecord, 0, len(res.rows)),
		Warnings:  make([]jsonWarning, 0, len(res.dataset.Warnings)),
	}

	for _, w := range res.dataset.Warnings {
		out.Warnings = append(out.Warnings, jsonWarning{Org: w.Org, StatusCode: w.StatusCode, Message: w.Message})
	}

	for _, r := range res.rows {
		out.Repos = append(out.Repos, jsonRecord{
			Name:        r.Name,
			Org:         r.Org,
			Language:    optional(r.Language),
			Description: optional(r.Description),
			Stars:       r.Stars,
			UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
			Year:        r.UpdatedYear,
			URL:         r.URL,
			Country:     string(r.Country),
			Category:    string(r.Category),
		})
	}

	if res.insights.HasData {
		out.Insights = jsonInsights{
			Total:              res.insights.Total,
			MostCommonLanguage: res.insights.MostCommonLanguage,
			LatestUpdate:       res.insights.LatestUpdateDate(),
		}
	} else {
		out.Insights = jsonInsights{Message: model.NoDataMessage}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
