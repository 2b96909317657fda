// Package transfer reads and writes the CSV interchange format for
// transactions.
package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
	"github.com/Rishabh-devloper/wealthwise/internal/services"
)

// Import column names. Matching is case-insensitive and order-free;
// category is optional and defaults to the uncategorized label.
const (
	colDate        = "date"
	colDescription = "description"
	colAmount      = "amount"
	colType        = "type"
	colCategory    = "category"
)

// ReadTransactions parses a CSV import file into transaction inputs.
// The whole file is parsed before anything is returned: one bad row
// fails the import with its row number, nothing is half-accepted.
func ReadTransactions(r io.Reader) ([]services.TransactionInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colDate, colDescription, colAmount, colType} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var inputs []services.TransactionInput
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		in, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		inputs = append(inputs, in)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return inputs, nil
}

func parseRecord(record []string, cols map[string]int) (services.TransactionInput, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := core.ParseDate(field(colDate))
	if err != nil {
		// Accept our own export format so round trips work.
		date, err = time.Parse(core.ExportDateLayout, field(colDate))
		if err != nil {
			return services.TransactionInput{}, fmt.Errorf("invalid date %q", field(colDate))
		}
	}

	description := field(colDescription)
	if description == "" {
		return services.TransactionInput{}, fmt.Errorf("missing description")
	}

	typ := core.TransactionType(strings.ToLower(field(colType)))
	if !typ.Valid() {
		return services.TransactionInput{}, fmt.Errorf("invalid type %q", field(colType))
	}

	// Exports carry signed amounts; imports accept either form and take
	// the magnitude, the sign comes from the type column.
	rawAmount := strings.TrimPrefix(field(colAmount), "-")
	amount, err := core.ParseAmount(rawAmount)
	if err != nil {
		return services.TransactionInput{}, fmt.Errorf("invalid amount %q", field(colAmount))
	}

	category := field(colCategory)
	if category == "" {
		category = core.UncategorizedLabel
	}

	return services.TransactionInput{
		Description: description,
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Date:        date,
	}, nil
}

// WriteTransactions writes transactions as a CSV export with the
// human-readable date format. Amounts keep their stored sign.
func WriteTransactions(w io.Writer, txs []core.Transaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"date", "description", "amount", "type", "category", "accountName"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(core.ExportDateLayout),
			tx.Description,
			tx.Amount.StringFixed(2),
			string(tx.Type),
			tx.Category,
			tx.AccountName,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
