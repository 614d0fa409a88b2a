package analyzer

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

const (
	TypeAPAging         = "AP Aging Report"
	TypeTrialBalance    = "Trial Balance"
	TypeGLJournal       = "GL Transaction Journal"
	TypeGLBalance       = "GL Balance Report"
	TypeBalanceSheet    = "Balance Sheet"
	TypeIncomeStatement = "Income Statement"
	TypeSubledger       = "Subledger Detail Report"
	TypeUnknown         = "Unknown Report Type"

	// header fallbacks cannot tell the two candidates apart
	TypeAPOrSubledger     = "AP Aging or Subledger Report"
	TypeGLTransactionOrTB = "GL Transaction or Trial Balance"
)

// Rule names a report type that applies when every group has at least one
// keyword present.
type Rule struct {
	Report string
	Groups [][]string
}

// TextRules classify full-page text, highest priority first.
var TextRules = []Rule{
	{TypeAPAging, [][]string{{"AGING", "AGED"}, {"PAYABLE", "A/P"}}},
	{TypeTrialBalance, [][]string{{"TRIAL BALANCE"}}},
	{TypeGLJournal, [][]string{{"GENERAL LEDGER", "G/L"}, {"TRANSACTION", "JOURNAL"}}},
	{TypeGLBalance, [][]string{{"GENERAL LEDGER", "G/L"}}},
	{TypeBalanceSheet, [][]string{{"BALANCE SHEET"}}},
	{TypeIncomeStatement, [][]string{{"INCOME STATEMENT", "P&L"}}},
	{TypeSubledger, [][]string{{"SUBLEDGER"}}},
}

// HeaderRules classify the header row of the first table when the page text
// names no known report.
var HeaderRules = []Rule{
	{TypeAPOrSubledger, [][]string{{"VENDOR"}, {"INVOICE"}}},
	{TypeGLTransactionOrTB, [][]string{{"ACCOUNT"}, {"DEBIT", "CREDIT"}}},
	{TypeGLBalance, [][]string{{"ACCOUNT"}, {"BALANCE"}}},
}

// Classifier scans text for every rule keyword in a single pass.
type Classifier struct {
	rules    []Rule
	keywords []string
	index    map[string]int

	// ahocorasick.Matcher mutates internal counters on Match
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{rules: rules, index: make(map[string]int)}
	for _, rule := range rules {
		for _, group := range rule.Groups {
			for _, kw := range group {
				kw = strings.ToUpper(kw)
				if _, ok := c.index[kw]; ok {
					continue
				}
				c.index[kw] = len(c.keywords)
				c.keywords = append(c.keywords, kw)
			}
		}
	}
	c.matcher = ahocorasick.NewStringMatcher(c.keywords)
	return c
}

// Classify returns the first rule satisfied by text, or TypeUnknown.
func (c *Classifier) Classify(text string) string {
	hits := c.hits(text)
	for _, rule := range c.rules {
		if satisfied(rule, hits, c.index) {
			return rule.Report
		}
	}
	return TypeUnknown
}

func (c *Classifier) hits(text string) map[int]bool {
	c.mu.Lock()
	matches := c.matcher.Match([]byte(strings.ToUpper(text)))
	c.mu.Unlock()

	hits := make(map[int]bool, len(matches))
	for _, idx := range matches {
		hits[idx] = true
	}
	return hits
}

func satisfied(rule Rule, hits map[int]bool, index map[string]int) bool {
	for _, group := range rule.Groups {
		found := false
		for _, kw := range group {
			if hits[index[strings.ToUpper(kw)]] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return len(rule.Groups) > 0
}

var (
	textClassifier   = NewClassifier(TextRules)
	headerClassifier = NewClassifier(HeaderRules)
)

// ClassifyText guesses the report type from page text alone.
func ClassifyText(text string) string {
	return textClassifier.Classify(text)
}

// ClassifyHeader guesses the report type from a table header.
func ClassifyHeader(header []string) string {
	return headerClassifier.Classify(strings.Join(header, " "))
}
