package config

import "testing"

func TestEnumIsValid(t *testing.T) {
	if !ProducerCron.IsValid() || !ProducerLinspace.IsValid() || !ProducerStatic.IsValid() ||
		!ProducerTimer.IsValid() || !ProducerTimestamps.IsValid() || !ProducerTimePatterns.IsValid() {
		t.Fatal("expected all declared producer kinds to be valid")
	}
	if ProducerKind("bogus").IsValid() {
		t.Fatal("expected unknown producer kind to be invalid")
	}

	if !PickerAll.IsValid() || !PickerAny.IsValid() || !PickerChance.IsValid() || !PickerSpin.IsValid() || !PickerFSM.IsValid() {
		t.Fatal("expected all declared picker modes to be valid")
	}
	if PickerMode("bogus").IsValid() {
		t.Fatal("expected unknown picker mode to be invalid")
	}

	if !OutputFile.IsValid() || !OutputStdout.IsValid() || !OutputHTTP.IsValid() || !OutputOpenSearch.IsValid() || !OutputClickHouse.IsValid() {
		t.Fatal("expected all declared output kinds to be valid")
	}
	if OutputKind("bogus").IsValid() {
		t.Fatal("expected unknown output kind to be invalid")
	}

	if !FormatterPlain.IsValid() || !FormatterJSON.IsValid() || !FormatterJSONBatch.IsValid() ||
		!FormatterTemplate.IsValid() || !FormatterTemplateBatch.IsValid() {
		t.Fatal("expected all declared formatter kinds to be valid")
	}
}
