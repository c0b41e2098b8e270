package convert

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Format
	}{
		{"empty", "", FormatPlainText},
		{"plain narrative", "Annual report. Item 1. Business.", FormatPlainText},
		{"sgml envelope", "<SEC-DOCUMENT>0000320193-24-000123.txt\n<SEC-HEADER>...", FormatSECWrapper},
		{"sgml header only", "<SEC-HEADER>ACCESSION NUMBER: ...</SEC-HEADER>", FormatSECWrapper},
		{"acceptance datetime", "<ACCEPTANCE-DATETIME>20241101060142", FormatSECWrapper},
		{"accession phrase", "Accession Number: 0000320193-24-000123", FormatSECWrapper},
		{"ixbrl namespace", `<html xmlns:ix="http://www.xbrl.org/2013/inlineXBRL">`, FormatIXBRL},
		{"ixbrl fact tag", `<ix:nonNumeric name="dei:EntityRegistrantName">Apple Inc.</ix:nonNumeric>`, FormatIXBRL},
		{"ixbrl wins over sgml", "<SEC-DOCUMENT>\n<ix:nonFraction>42</ix:nonFraction>", FormatIXBRL},
		{"marker case insensitive", "<IX:HIDDEN></IX:HIDDEN>", FormatIXBRL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify([]byte(tt.raw)); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}
