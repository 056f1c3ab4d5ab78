package config

// ProducerKind selects the input.ProducerSpec variant.
type ProducerKind string

const (
	ProducerCron         ProducerKind = "cron"
	ProducerLinspace     ProducerKind = "linspace"
	ProducerStatic       ProducerKind = "static"
	ProducerTimer        ProducerKind = "timer"
	ProducerTimestamps   ProducerKind = "timestamps"
	ProducerTimePatterns ProducerKind = "time_patterns"
)

// IsValid reports whether k names a known producer kind.
func (k ProducerKind) IsValid() bool {
	switch k {
	case ProducerCron, ProducerLinspace, ProducerStatic, ProducerTimer, ProducerTimestamps, ProducerTimePatterns:
		return true
	default:
		return false
	}
}

// PickerMode selects the event.Picker strategy.
type PickerMode string

const (
	PickerAll    PickerMode = "all"
	PickerAny    PickerMode = "any"
	PickerChance PickerMode = "chance"
	PickerSpin   PickerMode = "spin"
	PickerFSM    PickerMode = "fsm"
)

// IsValid reports whether m names a known picker mode.
func (m PickerMode) IsValid() bool {
	switch m {
	case PickerAll, PickerAny, PickerChance, PickerSpin, PickerFSM:
		return true
	default:
		return false
	}
}

// FormatterKind selects the event formatter.
type FormatterKind string

const (
	FormatterPlain         FormatterKind = "plain"
	FormatterJSON          FormatterKind = "json"
	FormatterJSONBatch     FormatterKind = "json-batch"
	FormatterTemplate      FormatterKind = "template"
	FormatterTemplateBatch FormatterKind = "template-batch"
)

// IsValid reports whether f names a known formatter kind.
func (f FormatterKind) IsValid() bool {
	switch f {
	case FormatterPlain, FormatterJSON, FormatterJSONBatch, FormatterTemplate, FormatterTemplateBatch:
		return true
	default:
		return false
	}
}

// OutputKind selects the output.OutputSpec variant.
type OutputKind string

const (
	OutputFile       OutputKind = "file"
	OutputStdout     OutputKind = "stdout"
	OutputHTTP       OutputKind = "http"
	OutputOpenSearch OutputKind = "opensearch"
	OutputClickHouse OutputKind = "clickhouse"
)

// IsValid reports whether k names a known output kind.
func (k OutputKind) IsValid() bool {
	switch k {
	case OutputFile, OutputStdout, OutputHTTP, OutputOpenSearch, OutputClickHouse:
		return true
	default:
		return false
	}
}

// WriteMode selects append vs overwrite semantics for the file output.
type WriteMode string

const (
	WriteModeAppend    WriteMode = "append"
	WriteModeOverwrite WriteMode = "overwrite"
)

// IsValid reports whether m is a known write mode.
func (m WriteMode) IsValid() bool {
	return m == WriteModeAppend || m == WriteModeOverwrite
}

// Stream selects which process standard stream the stdout output writes to.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// IsValid reports whether s is a known stream.
func (s Stream) IsValid() bool {
	return s == StreamStdout || s == StreamStderr
}

// SampleKind selects how a named sample set is loaded.
type SampleKind string

const (
	SampleCSV   SampleKind = "csv"
	SampleJSON  SampleKind = "json"
	SampleItems SampleKind = "items"
)

// IsValid reports whether k is a known sample kind.
func (k SampleKind) IsValid() bool {
	return k == SampleCSV || k == SampleJSON || k == SampleItems
}

// Direction is the skew direction for a time-pattern randomizer.
type Direction string

const (
	DirectionDecrease Direction = "decrease"
	DirectionIncrease Direction = "increase"
	DirectionMixed    Direction = "mixed"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionDecrease || d == DirectionIncrease || d == DirectionMixed
}

// Distribution is the spreader's point distribution inside an oscillator
// interval.
type Distribution string

const (
	DistributionUniform    Distribution = "uniform"
	DistributionTriangular Distribution = "triangular"
	DistributionBeta       Distribution = "beta"
)

// IsValid reports whether d is a known distribution.
func (d Distribution) IsValid() bool {
	return d == DistributionUniform || d == DistributionTriangular || d == DistributionBeta
}

// TimeUnit is the oscillator period unit.
type TimeUnit string

const (
	UnitSeconds TimeUnit = "s"
	UnitMinutes TimeUnit = "m"
	UnitHours   TimeUnit = "h"
	UnitDays    TimeUnit = "d"
)

// IsValid reports whether u is a known time unit.
func (u TimeUnit) IsValid() bool {
	switch u {
	case UnitSeconds, UnitMinutes, UnitHours, UnitDays:
		return true
	default:
		return false
	}
}

// TLSMode selects how the ClickHouse output negotiates TLS, per the Open
// Questions resolution in the design ledger.
type TLSMode string

const (
	TLSModeStrict TLSMode = "strict"
	TLSModeMutual TLSMode = "mutual"
	TLSModeProxy  TLSMode = "proxy"
)

// IsValid reports whether m is a known TLS mode.
func (m TLSMode) IsValid() bool {
	switch m {
	case TLSModeStrict, TLSModeMutual, TLSModeProxy:
		return true
	default:
		return false
	}
}
