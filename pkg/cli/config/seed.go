package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// SeedFile is the TOML representation of the fallback dataset
type SeedFile struct {
	Risks     []SeedRisk     `toml:"risk"`
	Documents []SeedDocument `toml:"document"`
}

// SeedRisk is a [[risk]] table of the seed file
type SeedRisk struct {
	ID            string `toml:"id"`
	Code          string `toml:"code"`
	Title         string `toml:"title"`
	Category      string `toml:"category"`
	Management    int    `toml:"factor_management"`
	Regulation    int    `toml:"factor_regulation"`
	Functionality int    `toml:"factor_functionality"`
	LGPD          int    `toml:"factor_lgpd"`
	Customer      int    `toml:"factor_customer"`
	Probability   int    `toml:"probability"`
	Unit          string `toml:"unit"`
	Owner         string `toml:"owner"`
}

// SeedDocument is a [[document]] table of the seed file. last_updated is a quoted YYYY-MM-DD string.
type SeedDocument struct {
	ID          string `toml:"id"`
	Title       string `toml:"title"`
	Type        string `toml:"type"`
	Unit        string `toml:"unit"`
	Status      string `toml:"status"`
	LastUpdated string `toml:"last_updated"`
	Description string `toml:"description"`
}

// ToModel converts the file into a domain seed. Impact and level are derived from the factors.
func (f *SeedFile) ToModel() *model.Seed {
	seed := &model.Seed{
		Risks:     make([]*model.Risk, len(f.Risks)),
		Documents: make([]*model.Document, len(f.Documents)),
	}
	for i, r := range f.Risks {
		risk := &model.Risk{
			ID:                  model.RiskID(r.ID),
			Code:                r.Code,
			Title:               r.Title,
			Category:            types.Category(r.Category),
			FactorManagement:    r.Management,
			FactorRegulation:    r.Regulation,
			FactorFunctionality: r.Functionality,
			FactorLGPD:          r.LGPD,
			FactorCustomer:      r.Customer,
			Probability:         r.Probability,
			Unit:                types.Unit(r.Unit),
			Owner:               r.Owner,
		}
		risk.Rescore()
		seed.Risks[i] = risk
	}
	for i, d := range f.Documents {
		seed.Documents[i] = &model.Document{
			ID:          model.DocumentID(d.ID),
			Title:       d.Title,
			Type:        types.DocumentType(d.Type),
			Unit:        types.Unit(d.Unit),
			Status:      types.DocumentStatus(d.Status),
			LastUpdated: d.LastUpdated,
			Description: d.Description,
		}
	}
	return seed
}

// LoadSeed reads and validates a TOML seed file
func LoadSeed(path string) (*model.Seed, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrSeedNotFound, "failed to read seed file", goerr.V(PathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V(PathKey, path))
	}

	var file SeedFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML seed", goerr.V(PathKey, path))
	}

	seed := file.ToModel()
	if err := seed.Validate(); err != nil {
		return nil, goerr.Wrap(err, "seed validation failed", goerr.V(PathKey, path))
	}

	return seed, nil
}

// Seed holds the CLI flag for the fallback dataset
type Seed struct {
	path string
}

func (x *Seed) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "TOML file with the dataset used when nothing is persisted (built-in demo data if empty)",
			Category:    "Store",
			Sources:     cli.EnvVars("THEMIS_SEED_FILE"),
			Destination: &x.path,
		},
	}
}

func (x Seed) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// Configure returns the seed read from the file, or the built-in dataset when no file is set
func (x *Seed) Configure() (*model.Seed, error) {
	if x.path == "" {
		return model.DefaultSeed(), nil
	}
	return LoadSeed(x.path)
}
