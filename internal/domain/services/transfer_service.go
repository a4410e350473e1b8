package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
)

// ErrUnknownEntity is returned for entities without an import/export schema
var ErrUnknownEntity = errors.New("entity not supported for import/export")

// ColumnKind tells the importer how to convert a CSV cell
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInt
	KindDecimal
	KindDate
	KindBool
)

// Lookup resolves a cell against another collection: the record whose Match
// field equals the cell (case-insensitive) provides its id as Target.
type Lookup struct {
	Resource string
	Match    string
	Target   string
}

// Column is one import column
type Column struct {
	Name     string
	Field    string // JSON field, defaults to Name
	Kind     ColumnKind
	Required bool
	Lookup   *Lookup
}

func (c Column) field() string {
	if c.Field != "" {
		return c.Field
	}
	return c.Name
}

// Schema describes the CSV shape of one entity
type Schema struct {
	Entity   string
	Import   []Column
	Export   []string
	UniqueBy string // JSON field used to skip rows that already exist
}

// Template returns the header row of the import columns
func (s Schema) Template() []string {
	header := make([]string, len(s.Import))
	for i, c := range s.Import {
		header[i] = c.Name
	}
	return header
}

// ImportResult is the outcome of one CSV import
type ImportResult struct {
	Success       bool     `json:"success"`
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors"`
}

// InterfaceTransferService defines CSV import/export
type InterfaceTransferService interface {
	Entities() []string
	Template(entity string) ([]byte, error)
	Import(ctx context.Context, entity string, r io.Reader) (*ImportResult, error)
	Export(ctx context.Context, entity string) ([]byte, error)
}

// ResourceLocator finds the CRUD service of a collection
type ResourceLocator func(name string) (InterfaceResourceService, bool)

// TransferService imports and exports CSV files through the resource services
type TransferService struct {
	schemas   map[string]Schema
	resources ResourceLocator
	log       *zap.Logger
}

// NewTransferService creates the service over the given schemas
func NewTransferService(schemas []Schema, resources ResourceLocator, log *zap.Logger) InterfaceTransferService {
	if log == nil {
		log = zap.NewNop()
	}
	byEntity := make(map[string]Schema, len(schemas))
	for _, s := range schemas {
		byEntity[s.Entity] = s
	}
	return &TransferService{schemas: byEntity, resources: resources, log: log}
}

func (s *TransferService) schema(entity string) (Schema, InterfaceResourceService, error) {
	schema, ok := s.schemas[entity]
	if !ok {
		return Schema{}, nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	resource, ok := s.resources(entity)
	if !ok {
		return Schema{}, nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return schema, resource, nil
}

// 1 Entities lists the supported entity names
func (s *TransferService) Entities() []string {
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// 2 Template returns a CSV holding only the header row
func (s *TransferService) Template(entity string) ([]byte, error) {
	schema, ok := s.schemas[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return writeCSV(schema.Template(), nil)
}

// 3 Import creates one record per CSV row. Row failures are collected as
// "Row N: reason" with the header being row 1; they never abort the import.
func (s *TransferService) Import(ctx context.Context, entity string, r io.Reader) (*ImportResult, error) {
	schema, resource, err := s.schema(entity)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Message: "CSV file is empty"}
		}
		return nil, &ValidationError{Message: "invalid CSV file: " + err.Error()}
	}
	index := headerIndex(header)
	var missing []string
	for _, c := range schema.Import {
		if _, ok := index[c.Name]; !ok && c.Required {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "missing required columns: " + strings.Join(missing, ", ")}
	}

	lookups, err := s.loadLookups(ctx, schema)
	if err != nil {
		return nil, err
	}
	seen, err := s.existingValues(ctx, schema, resource)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Success: true, Errors: []string{}}
	rowNum := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if blankRow(row) {
			continue
		}

		values, err := convertRow(schema, index, row, lookups)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		uniqueValue := ""
		if schema.UniqueBy != "" {
			if v, ok := values[schema.UniqueBy].(string); ok {
				uniqueValue = strings.ToLower(v)
				if seen[uniqueValue] {
					result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s %s already exists", rowNum, schema.UniqueBy, v))
					continue
				}
			}
		}

		body, err := json.Marshal(values)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if _, err := resource.Create(ctx, body); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, rowError(err)))
			continue
		}
		if uniqueValue != "" {
			seen[uniqueValue] = true
		}
		result.ImportedCount++
	}

	s.log.Info("import finished",
		zap.String("entity", entity),
		zap.Int("imported", result.ImportedCount),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// 4 Export writes every record as a CSV row of the export columns
func (s *TransferService) Export(ctx context.Context, entity string) ([]byte, error) {
	schema, resource, err := s.schema(entity)
	if err != nil {
		return nil, err
	}
	records, err := recordMaps(ctx, resource)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, len(schema.Export))
		for i, column := range schema.Export {
			row[i] = exportCell(column, record[column])
		}
		rows = append(rows, row)
	}
	return writeCSV(schema.Export, rows)
}

func (s *TransferService) loadLookups(ctx context.Context, schema Schema) (map[string]map[string]interface{}, error) {
	lookups := make(map[string]map[string]interface{})
	for _, c := range schema.Import {
		if c.Lookup == nil {
			continue
		}
		resource, ok := s.resources(c.Lookup.Resource)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, c.Lookup.Resource)
		}
		records, err := recordMaps(ctx, resource)
		if err != nil {
			return nil, err
		}
		ids := make(map[string]interface{}, len(records))
		for _, record := range records {
			if key, ok := record[c.Lookup.Match].(string); ok {
				ids[strings.ToLower(strings.TrimSpace(key))] = record["id"]
			}
		}
		lookups[c.Name] = ids
	}
	return lookups, nil
}

func (s *TransferService) existingValues(ctx context.Context, schema Schema, resource InterfaceResourceService) (map[string]bool, error) {
	seen := make(map[string]bool)
	if schema.UniqueBy == "" {
		return seen, nil
	}
	records, err := recordMaps(ctx, resource)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if v, ok := record[schema.UniqueBy].(string); ok && v != "" {
			seen[strings.ToLower(v)] = true
		}
	}
	return seen, nil
}

// recordMaps lists a collection in its JSON shape
func recordMaps(ctx context.Context, resource InterfaceResourceService) ([]map[string]interface{}, error) {
	list, err := resource.List(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var records []map[string]interface{}
	if err := decoder.Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func convertRow(schema Schema, index map[string]int, row []string, lookups map[string]map[string]interface{}) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(schema.Import))
	for _, c := range schema.Import {
		cell := ""
		if i, ok := index[c.Name]; ok && i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		if cell == "" {
			if c.Required {
				return nil, fmt.Errorf("%s is required", c.Name)
			}
			continue
		}
		if c.Lookup != nil {
			id, ok := lookups[c.Name][strings.ToLower(cell)]
			if !ok {
				return nil, fmt.Errorf("%s %q not found", c.Name, cell)
			}
			values[c.Lookup.Target] = id
			continue
		}
		value, err := convertCell(c, cell)
		if err != nil {
			return nil, err
		}
		values[c.field()] = value
	}
	return values, nil
}

func convertCell(c Column, cell string) (interface{}, error) {
	switch c.Kind {
	case KindInt:
		n, err := strconv.Atoi(cell)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", c.Name)
		}
		return n, nil
	case KindDecimal:
		d, err := decimal.NewFromString(strings.ReplaceAll(cell, ",", "."))
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", c.Name)
		}
		return d.String(), nil
	case KindDate:
		t, err := models.ParseTime(cell)
		if err != nil {
			return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD)", c.Name)
		}
		return t.Format(models.DateLayout), nil
	case KindBool:
		switch strings.ToLower(cell) {
		case "1", "true", "yes", "y", "sim":
			return true, nil
		case "0", "false", "no", "n", "nao", "não":
			return false, nil
		}
		return nil, fmt.Errorf("%s must be true or false", c.Name)
	default:
		return cell, nil
	}
}

func rowError(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// exportCell renders date columns as YYYY-MM-DD
func exportCell(column string, v interface{}) string {
	value := cellString(v)
	if value != "" && strings.HasSuffix(column, "_date") {
		if t, err := models.ParseTime(value); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return value
}

func cellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
