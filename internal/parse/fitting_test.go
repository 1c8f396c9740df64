package parse

import (
	"testing"
)

func TestParseFittingAggregatesDuplicates(t *testing.T) {
	input := "[Rifter, Fit]\n" +
		"Gyrostabilizer II\n" +
		"Gyrostabilizer II\n" +
		"125mm Gatling AutoCannon II x2"

	result := ParseFitting(input)

	if result.HullName != "Rifter" {
		t.Errorf("hull = %q, want Rifter", result.HullName)
	}
	if result.Items["Rifter"] != 1 {
		t.Errorf("hull quantity = %d, want 1", result.Items["Rifter"])
	}
	if result.Items["Gyrostabilizer II"] != 2 {
		t.Errorf("Gyrostabilizer II quantity = %d, want 2", result.Items["Gyrostabilizer II"])
	}
	if result.Items["125mm Gatling AutoCannon II"] != 2 {
		t.Errorf("AutoCannon quantity = %d, want 2", result.Items["125mm Gatling AutoCannon II"])
	}
	if len(result.Items) != 3 {
		t.Errorf("expected 3 distinct items, got %d", len(result.Items))
	}
}

func TestParseFittingHullWithoutFitName(t *testing.T) {
	result := ParseFitting("[Merlin]\nLight Neutron Blaster II")

	if result.HullName != "Merlin" {
		t.Errorf("hull = %q, want Merlin", result.HullName)
	}
	if result.Items["Light Neutron Blaster II"] != 1 {
		t.Error("module line missing from items")
	}
}

func TestParseFittingSkipsBlankAndEmptySlots(t *testing.T) {
	input := "[Rifter, Travel]\n" +
		"\n" +
		"[Empty High slot]\n" +
		"1MN Afterburner II\n" +
		"   \n"

	result := ParseFitting(input)

	if len(result.Items) != 2 {
		t.Errorf("expected hull + 1 module, got %d items: %v", len(result.Items), result.Items)
	}
	if result.Items["1MN Afterburner II"] != 1 {
		t.Error("afterburner missing")
	}
}

func TestParseFittingNoHullDeclaration(t *testing.T) {
	result := ParseFitting("Gyrostabilizer II\nGyrostabilizer II")

	if result.HullName != "" {
		t.Errorf("hull should be empty, got %q", result.HullName)
	}
	if result.Items["Gyrostabilizer II"] != 2 {
		t.Errorf("quantity = %d, want 2", result.Items["Gyrostabilizer II"])
	}
}

func TestParseFittingEmptyInput(t *testing.T) {
	result := ParseFitting("")
	if result.HullName != "" || len(result.Items) != 0 {
		t.Errorf("empty input should parse to nothing, got %+v", result)
	}
}
