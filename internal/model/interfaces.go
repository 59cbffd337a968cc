package model

// Reporter defines how to present a conversion result
type Reporter interface {
	Report(result *ConversionResult) error
}
