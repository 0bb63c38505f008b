// Package mdl renders the extracted catalog as Model Definition Language
// YAML files: one human-editable document per database, with placeholder
// descriptions meant to be completed by hand before the documents are
// embedded for retrieval.
package mdl

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/grimbano/ucm-tfm-grupo-4/internal/catalog"
)

// DefaultPlaceholder fills every description field of a generated document.
const DefaultPlaceholder = "[To be completed ...]"

// Document is one MDL file: a database with its schemas, tables, and
// columns. Field order here is the key order of the rendered YAML.
type Document struct {
	Database    string   `yaml:"database"`
	Description string   `yaml:"description"`
	Schemas     []Schema `yaml:"schemas"`
}

type Schema struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Tables      []Table `yaml:"tables"`
}

type Table struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Columns     []Column `yaml:"columns"`
}

type Column struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	DataType    string `yaml:"data_type"`
	PrimaryKey  bool   `yaml:"is_primary_key"`
	ForeignKey  bool   `yaml:"is_foreign_key"`
	// Reference is the fully qualified referenced column, present only on
	// foreign keys. A dangling foreign key keeps the flag with a null
	// reference so the gap stays visible in the document.
	Reference *string `yaml:"reference"`
}

// MarshalYAML emits key flags only when set: primary keys carry
// is_primary_key, foreign keys carry is_foreign_key plus reference, and a
// dangling foreign key renders reference as an explicit null.
func (c Column) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value *yaml.Node) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			value,
		)
	}
	scalar := func(v string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
	}

	add("name", scalar(c.Name))
	add("description", scalar(c.Description))
	add("data_type", scalar(c.DataType))

	if c.PrimaryKey {
		add("is_primary_key", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	if c.ForeignKey {
		add("is_foreign_key", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
		if c.Reference != nil {
			add("reference", scalar(*c.Reference))
		} else {
			add("reference", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"})
		}
	}
	return node, nil
}

// Generator writes MDL documents to an output directory.
type Generator struct {
	outputDir   string
	placeholder string
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithPlaceholder overrides the description placeholder text.
func WithPlaceholder(text string) Option {
	return func(g *Generator) { g.placeholder = text }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// NewGenerator returns a Generator writing into outputDir. The directory
// must already exist; generation never creates it.
func NewGenerator(outputDir string, opts ...Option) (*Generator, error) {
	info, err := os.Stat(outputDir)
	if err != nil {
		return nil, fmt.Errorf("output path %s does not exist: %w", outputDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output path %s is not a directory", outputDir)
	}

	g := &Generator{
		outputDir:   outputDir,
		placeholder: DefaultPlaceholder,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate builds one MDL document per database found in the records and
// writes them concurrently as MDL_<database>.yaml. It returns the written
// file paths in document order.
func (g *Generator) Generate(records []catalog.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no catalog records to generate MDL files from")
	}

	docs := g.buildDocuments(records)

	paths := make([]string, len(docs))
	var eg errgroup.Group
	for i, doc := range docs {
		path := filepath.Join(g.outputDir, fmt.Sprintf("MDL_%s.yaml", doc.Database))
		paths[i] = path

		eg.Go(func() error {
			out, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshaling MDL for %s: %w", doc.Database, err)
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			g.logger.Info("MDL file written", "path", path, "schemas", len(doc.Schemas))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// buildDocuments groups the flat records into the database > schema >
// table > column hierarchy. Records arrive sorted, so grouping preserves
// their order without re-sorting.
func (g *Generator) buildDocuments(records []catalog.Record) []Document {
	var docs []Document

	for _, r := range records {
		if len(docs) == 0 || docs[len(docs)-1].Database != r.DBName {
			docs = append(docs, Document{Database: r.DBName, Description: g.placeholder})
		}
		doc := &docs[len(docs)-1]

		if len(doc.Schemas) == 0 || doc.Schemas[len(doc.Schemas)-1].Name != r.SchemaName {
			doc.Schemas = append(doc.Schemas, Schema{Name: r.SchemaName, Description: g.placeholder})
		}
		schema := &doc.Schemas[len(doc.Schemas)-1]

		if len(schema.Tables) == 0 || schema.Tables[len(schema.Tables)-1].Name != r.TableName {
			schema.Tables = append(schema.Tables, Table{Name: r.TableName, Description: g.placeholder})
		}
		table := &schema.Tables[len(schema.Tables)-1]

		col := Column{
			Name:        r.ColumnName,
			Description: g.placeholder,
			DataType:    r.ColumnType,
			PrimaryKey:  r.PrimaryKey,
			ForeignKey:  r.ForeignKey,
		}
		if r.ForeignKey {
			col.Reference = r.Target
		}
		table.Columns = append(table.Columns, col)
	}

	return docs
}
