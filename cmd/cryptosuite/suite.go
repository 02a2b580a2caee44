package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/audit"
	"github.com/remiblancher/cryptosuite/internal/cli"
	"github.com/remiblancher/cryptosuite/internal/config"
	"github.com/remiblancher/cryptosuite/internal/loader"
	"github.com/remiblancher/cryptosuite/internal/policy"
)

var errNoSuite = errors.New("no suite document: use --suite or set " + config.EnvSuite)

var inspectCmd = &cobra.Command{
	Use:   "inspect [suite]",
	Short: "Show suite metadata and entry counts",
	Long: `Show the metadata of a suite document, the number of entries it declares,
the entries dropped while loading it, and how many digest and signature
algorithms each usage scope accepts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

var digestsCmd = &cobra.Command{
	Use:   "digests",
	Short: "List acceptable digest algorithms",
	Long: `List the digest algorithms a scope accepts with their expiration dates.

An algorithm with several evaluations expires on the latest end date, and
never expires if any evaluation is open-ended.`,
	Args: cobra.NoArgs,
	RunE: runDigests,
}

var signaturesCmd = &cobra.Command{
	Use:   "signatures",
	Short: "List acceptable signature algorithms",
	Long: `List the signature algorithms a scope accepts, one row per minimum key
size tier, with their expiration dates.

Rows come from explicit signature algorithm entries or are derived from an
encryption algorithm entry combined with each acceptable digest.`,
	Args: cobra.NoArgs,
	RunE: runSignatures,
}

var (
	suiteScope string
	suiteJSON  bool
)

func init() {
	for _, cmd := range []*cobra.Command{digestsCmd, signaturesCmd} {
		cmd.Flags().StringVar(&suiteScope, "scope", string(policy.ScopeDefault), "Usage scope")
		cmd.Flags().BoolVar(&suiteJSON, "json", false, "Output as JSON")
	}
	inspectCmd.Flags().BoolVar(&suiteJSON, "json", false, "Output as JSON")
}

// loadCatalogue loads the configured suite document and records the load in
// the audit log.
func loadCatalogue(extra ...policy.CatalogueOption) (*policy.Catalogue, *loader.Document, error) {
	path := cfg.Suite.Path
	if path == "" {
		return nil, nil, errNoSuite
	}

	doc, err := loader.LoadFile(path, loader.WithLogger(logger), loader.WithFormat(cfg.SuiteFormat()))
	if err == nil {
		opts := append(cfg.CatalogueOptions(), policy.WithLogger(logger))
		var catalogue *policy.Catalogue
		if catalogue, err = policy.NewCatalogue(doc, append(opts, extra...)...); err == nil {
			meta := catalogue.Metadata()
			if err := audit.LogSuiteLoaded(path, meta.PolicyName,
				len(catalogue.Algorithms()), len(doc.Dropped()), nil); err != nil {
				return nil, nil, err
			}
			logger.Debug("Loaded suite {PolicyName} from {Path}", meta.PolicyName, path)
			return catalogue, doc, nil
		}
	}

	if auditErr := audit.LogSuiteLoaded(path, "", 0, 0, err); auditErr != nil {
		return nil, nil, auditErr
	}
	return nil, nil, fmt.Errorf("failed to load suite %s: %w", path, err)
}

func scopedSuite(c *policy.Catalogue) (*policy.Suite, error) {
	scope, err := policy.ParseScope(suiteScope)
	if err != nil {
		return nil, err
	}
	return c.Suite(scope)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type inspectReport struct {
	Source  string          `json:"source"`
	Format  loader.Format   `json:"format"`
	Meta    policy.Metadata `json:"metadata"`
	Entries int             `json:"entries"`
	Dropped []string        `json:"dropped,omitempty"`
	Scopes  []scopeCount    `json:"scopes"`
}

type scopeCount struct {
	Scope      policy.Scope `json:"scope"`
	Digests    int          `json:"digests"`
	Signatures int          `json:"signatures"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg.Suite.Path = args[0]
	}
	catalogue, doc, err := loadCatalogue()
	if err != nil {
		return err
	}

	report := inspectReport{
		Source:  doc.Source(),
		Format:  doc.Format(),
		Meta:    catalogue.Metadata(),
		Entries: len(catalogue.Algorithms()),
	}
	for _, d := range doc.Dropped() {
		report.Dropped = append(report.Dropped, d.Error())
	}
	for _, scope := range policy.Scopes() {
		s, err := catalogue.Suite(scope)
		if err != nil {
			return err
		}
		report.Scopes = append(report.Scopes, scopeCount{
			Scope:      scope,
			Digests:    len(s.AcceptableDigestAlgorithmsWithExpirationDates()),
			Signatures: len(s.AcceptableSignatureAlgorithmsWithMinKeySizes()),
		})
	}

	out := cmd.OutOrStdout()
	if suiteJSON {
		return writeJSON(out, report)
	}

	m := report.Meta
	_, _ = fmt.Fprintf(out, "Suite:       %s\n", report.Source)
	_, _ = fmt.Fprintf(out, "Format:      %s\n", report.Format)
	_, _ = fmt.Fprintf(out, "Policy:      %s\n", m.PolicyName)
	if m.PolicyOID != "" {
		_, _ = fmt.Fprintf(out, "Policy OID:  %s\n", m.PolicyOID)
	}
	if m.PolicyURI != "" {
		_, _ = fmt.Fprintf(out, "Policy URI:  %s\n", m.PolicyURI)
	}
	if m.PublisherName != "" {
		_, _ = fmt.Fprintf(out, "Publisher:   %s\n", m.PublisherName)
	}
	if m.Version != "" {
		_, _ = fmt.Fprintf(out, "Version:     %s\n", m.Version)
	}
	if m.IssueDate != nil {
		_, _ = fmt.Fprintf(out, "Issued:      %s\n", cli.FormatDate(m.IssueDate))
	}
	if m.NextUpdate != nil {
		_, _ = fmt.Fprintf(out, "Next update: %s\n", cli.FormatDate(m.NextUpdate))
	}
	_, _ = fmt.Fprintf(out, "Entries:     %d (%d dropped)\n", report.Entries, len(report.Dropped))
	for _, d := range report.Dropped {
		_, _ = fmt.Fprintf(out, "  - %s\n", d)
	}
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCOPE\tDIGESTS\tSIGNATURES")
	for _, s := range report.Scopes {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", s.Scope, s.Digests, s.Signatures)
	}
	return w.Flush()
}

type digestRow struct {
	Algorithm string `json:"algorithm"`
	OID       string `json:"oid,omitempty"`
	NotAfter  string `json:"not_after"`
}

func runDigests(cmd *cobra.Command, args []string) error {
	catalogue, _, err := loadCatalogue()
	if err != nil {
		return err
	}
	suite, err := scopedSuite(catalogue)
	if err != nil {
		return err
	}

	var rows []digestRow
	for alg, end := range suite.AcceptableDigestAlgorithmsWithExpirationDates() {
		rows = append(rows, digestRow{Algorithm: string(alg), OID: alg.OID(), NotAfter: cli.FormatDate(end)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Algorithm < rows[j].Algorithm })

	out := cmd.OutOrStdout()
	if suiteJSON {
		return writeJSON(out, rows)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintf(out, "No acceptable digest algorithms in scope %s\n", suite.Scope())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ALGORITHM\tOID\tNOT AFTER")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Algorithm, r.OID, r.NotAfter)
	}
	return w.Flush()
}

type signatureRow struct {
	Algorithm  string `json:"algorithm"`
	MinKeySize int    `json:"min_key_size"`
	NotAfter   string `json:"not_after"`
}

func runSignatures(cmd *cobra.Command, args []string) error {
	catalogue, _, err := loadCatalogue()
	if err != nil {
		return err
	}
	suite, err := scopedSuite(catalogue)
	if err != nil {
		return err
	}

	dates := suite.AcceptableSignatureAlgorithmsWithExpirationDates()
	var rows []signatureRow
	for _, k := range suite.AcceptableSignatureAlgorithmsWithMinKeySizes() {
		rows = append(rows, signatureRow{
			Algorithm:  string(k.Algorithm),
			MinKeySize: k.MinKeySize,
			NotAfter:   cli.FormatDate(dates[k]),
		})
	}

	out := cmd.OutOrStdout()
	if suiteJSON {
		return writeJSON(out, rows)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintf(out, "No acceptable signature algorithms in scope %s\n", suite.Scope())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ALGORITHM\tMIN KEY SIZE\tNOT AFTER")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", r.Algorithm, r.MinKeySize, r.NotAfter)
	}
	return w.Flush()
}
