package config

// Default configuration values.
const (
	DefaultLanguage       = "es"
	DefaultSemanticSchema = "semantic"
	DefaultFlatTable      = "sales_flat"
	DefaultMDLDir         = "mdl"
	DefaultStateFile      = ".semlayer/state.db"
	DefaultOutput         = "table"
)

// ApplyTargetDefaults applies default values to a TargetConfig based on the
// target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}

	if t.Schema == "" {
		switch t.Type {
		case "postgres":
			t.Schema = "public"
		default:
			t.Schema = "main"
		}
	}

	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

// applyDefaults fills unset semantic and catalog values.
func (c *Config) applyDefaults() {
	if c.Semantic.Language == "" {
		c.Semantic.Language = DefaultLanguage
	}
	if c.Semantic.Schema == "" {
		c.Semantic.Schema = DefaultSemanticSchema
	}
	if c.Semantic.FlatTable == "" {
		c.Semantic.FlatTable = DefaultFlatTable
	}
	if c.Catalog.MDLDir == "" {
		c.Catalog.MDLDir = DefaultMDLDir
	}
	if c.StatePath == "" {
		c.StatePath = DefaultStateFile
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutput
	}
}
