// Command seedmembers converts a member roster spreadsheet into a SQL seed file.
// The first sheet must have a header row naming Name, Constituency and Party
// columns (any order, case-insensitive). Party is optional.
// Usage: go run ./cmd/seedmembers --in roster.xlsx --out db/seeds/members.sql
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

const batchSize = 500

type memberEntry struct {
	id           uuid.UUID
	name         string
	constituency string
	party        string
}

func main() {
	cmd := &cobra.Command{
		Use:   "seedmembers",
		Short: "Generate a members seed file from a roster spreadsheet",
		Long: `seedmembers reads the first sheet of an .xlsx roster and writes batched
INSERT statements for the members table. Existing members (by name) are left
alone unless --reseed is given, in which case the table is cleared and every
member gets a fresh id.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			outPath, _ := cmd.Flags().GetString("out")
			reseed, _ := cmd.Flags().GetBool("reseed")
			return run(in, outPath, reseed)
		},
	}
	cmd.Flags().String("in", "members.xlsx", "Roster spreadsheet")
	cmd.Flags().String("out", "db/seeds/members.sql", "Output SQL file")
	cmd.Flags().Bool("reseed", false, "Replace the whole registry, regenerating member ids")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(in, outPath string, reseed bool) error {
	f, err := excelize.OpenFile(in)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("read roster sheet: %w", err)
	}
	entries, err := parseRoster(rows)
	if err != nil {
		return err
	}
	log.Printf("roster: %d members", len(entries))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if err := writeSeed(out, entries, reseed); err != nil {
		return err
	}
	log.Printf("Generated %d members (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseRoster finds the header row and reads one member per following row.
// Rows without a name are skipped; repeated names keep the first row.
func parseRoster(rows [][]string) ([]memberEntry, error) {
	header := -1
	nameCol, constCol, partyCol := -1, -1, -1
	for i, row := range rows {
		for j, cell := range row {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "name", "member", "nama":
				nameCol = j
			case "constituency", "kawasan":
				constCol = j
			case "party", "parti":
				partyCol = j
			}
		}
		if nameCol >= 0 && constCol >= 0 {
			header = i
			break
		}
		nameCol, constCol, partyCol = -1, -1, -1
	}
	if header < 0 {
		return nil, fmt.Errorf("roster has no header row with Name and Constituency columns")
	}

	seen := make(map[string]bool)
	var entries []memberEntry
	for _, row := range rows[header+1:] {
		name := strings.Join(strings.Fields(cellVal(row, nameCol)), " ")
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		entries = append(entries, memberEntry{
			id:           uuid.New(),
			name:         name,
			constituency: strings.Join(strings.Fields(cellVal(row, constCol)), " "),
			party:        strings.TrimSpace(cellVal(row, partyCol)),
		})
	}
	return entries, nil
}

func writeSeed(out io.Writer, entries []memberEntry, reseed bool) error {
	header := []string{
		"-- Member registry seed data generated from a roster spreadsheet.",
		fmt.Sprintf("-- %d members in batches of %d.", len(entries), batchSize),
		"BEGIN;",
		"",
	}
	if reseed {
		header = append(header, "DELETE FROM members;", "")
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	if _, err := fmt.Fprintln(out, "\nCOMMIT;"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	return nil
}

func writeBatch(out io.Writer, batch []memberEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO members (id, name, constituency, party)\n")
	b.WriteString("SELECT v.id::uuid, v.name, v.constituency, v.party FROM (VALUES\n")
	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s')",
			e.id, escapeSQL(e.name), escapeSQL(e.constituency), escapeSQL(e.party))
	}
	b.WriteString("\n) AS v(id, name, constituency, party)\n")
	b.WriteString("WHERE NOT EXISTS (SELECT 1 FROM members m WHERE m.name = v.name);\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
