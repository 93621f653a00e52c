package importer

import (
	"bigstep/internal/calculator"
	"bigstep/internal/config"
	"bigstep/internal/model"
	"bigstep/internal/parser"
)

// OptionsFromConfig 설정 파일 값으로 기본 양식을 덮어쓴다.
func OptionsFromConfig(cfg *config.AppConfig) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}

	for _, schema := range opts.Schemas {
		var pc config.PlatformConfig
		switch schema.Platform {
		case model.PlatformA:
			pc = cfg.PlatformA
		case model.PlatformB:
			pc = cfg.PlatformB
		default:
			continue
		}
		applyPlatformConfig(schema, pc)
	}

	opts.ScanDepth = cfg.Input.ScanDepth
	opts.ShapeSampleRows = cfg.Input.ShapeSampleRows
	opts.DynamicHeaders = cfg.Input.DynamicHeaders
	opts.Extract = parser.ExtractOptions{
		Names:       parser.NamePolicy{StripParentheses: cfg.Input.StripParentheses},
		FeePerOrder: cfg.PlatformB.FeePerOrder,
		Retro:       parser.RetroPolicy(cfg.PlatformB.RetroPolicy),
		SkipNames:   cfg.Input.SkipNames,
	}
	if opts.Extract.Retro != parser.RetroManual {
		opts.Extract.Retro = parser.RetroColumns
	}
	opts.Rates = calculator.NewRates(cfg.Settlement.WithholdingRate, cfg.Settlement.LocalTaxRate, cfg.Settlement.RoundUnit)
	return opts
}

func applyPlatformConfig(schema *parser.Schema, pc config.PlatformConfig) {
	if pc.SheetMarker != "" {
		schema.SheetMarker = pc.SheetMarker
	}
	if pc.InsuranceMarker != "" {
		schema.InsuranceMarker = pc.InsuranceMarker
	}
	schema.Legacy = parser.LegacyLayout{HeaderRow: pc.LegacyHeaderRow, DataStartRow: pc.LegacyDataRow}
}
