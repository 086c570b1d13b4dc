// Package entity defines the domain models for the instruments feature.
package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Instrument is a tradable security the service can analyse.
// Code is the market-data ticker (e.g. "THYAO.IS"), Name the display name.
type Instrument struct {
	Code     string
	Name     string
	Market   string
	IsActive bool
	SortKey  int
}

// MatchesName は query が表示名と大文字小文字を無視して一致するかを返します。
// トルコ語の İ/i と I/ı を区別して比較し、ASCII 入力 ("BIM") 向けに通常の比較も行います。
func (i Instrument) MatchesName(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}
	if strings.EqualFold(i.Name, query) {
		return true
	}
	// Caser は状態を持つため呼び出しごとに作る
	lower := cases.Lower(language.Turkish)
	return lower.String(i.Name) == lower.String(query)
}
