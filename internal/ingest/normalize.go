package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Counterparty is the cleaned-up payee or payer behind a statement narration.
type Counterparty struct {
	Name       string
	Category   string
	Confidence float64
}

type counterpartyMapping struct {
	key  string
	info Counterparty
}

// knownCounterparties maps narration keywords to a display name and category.
// Longer, more specific keys come first.
var knownCounterparties = []counterpartyMapping{
	// Groceries and food
	{"chicken republic", Counterparty{Name: "Chicken Republic", Category: "Food", Confidence: 0.95}},
	{"shoprite", Counterparty{Name: "Shoprite", Category: "Food", Confidence: 0.95}},
	{"spar", Counterparty{Name: "Spar", Category: "Food", Confidence: 0.9}},
	{"dominos", Counterparty{Name: "Domino's", Category: "Food", Confidence: 0.95}},
	{"kilimanjaro", Counterparty{Name: "Kilimanjaro", Category: "Food", Confidence: 0.95}},
	{"chowdeck", Counterparty{Name: "Chowdeck", Category: "Food", Confidence: 0.95}},

	// Transport and fuel
	{"bolt", Counterparty{Name: "Bolt", Category: "Transportation", Confidence: 0.9}},
	{"uber", Counterparty{Name: "Uber", Category: "Transportation", Confidence: 0.95}},
	{"oando", Counterparty{Name: "Oando", Category: "Transportation", Confidence: 0.95}},
	{"conoil", Counterparty{Name: "Conoil", Category: "Transportation", Confidence: 0.95}},
	{"totalenergies", Counterparty{Name: "TotalEnergies", Category: "Transportation", Confidence: 0.95}},

	// Airtime, data and power
	{"airtel", Counterparty{Name: "Airtel", Category: "Utilities", Confidence: 0.95}},
	{"9mobile", Counterparty{Name: "9mobile", Category: "Utilities", Confidence: 0.95}},
	{"mtn", Counterparty{Name: "MTN", Category: "Utilities", Confidence: 0.95}},
	{"glo", Counterparty{Name: "Glo", Category: "Utilities", Confidence: 0.85}},
	{"ikedc", Counterparty{Name: "Ikeja Electric", Category: "Utilities", Confidence: 0.95}},
	{"ekedc", Counterparty{Name: "Eko Electricity", Category: "Utilities", Confidence: 0.95}},
	{"aedc", Counterparty{Name: "Abuja Electricity", Category: "Utilities", Confidence: 0.95}},

	// Entertainment
	{"dstv", Counterparty{Name: "DStv", Category: "Entertainment", Confidence: 0.95}},
	{"gotv", Counterparty{Name: "GOtv", Category: "Entertainment", Confidence: 0.95}},
	{"netflix", Counterparty{Name: "Netflix", Category: "Entertainment", Confidence: 0.95}},
	{"spotify", Counterparty{Name: "Spotify", Category: "Entertainment", Confidence: 0.95}},

	// Shopping
	{"jumia", Counterparty{Name: "Jumia", Category: "Shopping", Confidence: 0.95}},
	{"konga", Counterparty{Name: "Konga", Category: "Shopping", Confidence: 0.95}},

	// Insurance and pensions
	{"hygeia", Counterparty{Name: "Hygeia HMO", Category: "Health Insurance", Confidence: 0.95}},
	{"axa mansard", Counterparty{Name: "AXA Mansard", Category: "Insurance", Confidence: 0.95}},
	{"leadway", Counterparty{Name: "Leadway Assurance", Category: "Insurance", Confidence: 0.95}},
	{"stanbic ibtc pension", Counterparty{Name: "Stanbic IBTC Pension", Category: "Pension", Confidence: 0.95}},
	{"arm pension", Counterparty{Name: "ARM Pension", Category: "Pension", Confidence: 0.95}},
	{"pencom", Counterparty{Name: "PenCom", Category: "Pension", Confidence: 0.95}},

	// Bank fees and levies
	{"stamp duty", Counterparty{Name: "Stamp Duty", Category: "Bank Charges", Confidence: 0.95}},
	{"sms alert", Counterparty{Name: "SMS Alert Charge", Category: "Bank Charges", Confidence: 0.95}},
	{"vat", Counterparty{Name: "VAT", Category: "Bank Charges", Confidence: 0.8}},
}

// categoryKeywords maps generic narration keywords to categories.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"salary", "Salary"},
	{"rent", "Housing"},
	{"landlord", "Housing"},
	{"lease", "Housing"},
	{"school", "Education"},
	{"tuition", "Education"},
	{"hospital", "Healthcare"},
	{"pharmacy", "Healthcare"},
	{"fuel", "Transportation"},
	{"filling station", "Transportation"},
	{"airtime", "Utilities"},
	{"data bundle", "Utilities"},
	{"electricity", "Utilities"},
	{"charge", "Bank Charges"},
	{"levy", "Bank Charges"},
	{"hotel", "Travel"},
	{"flight", "Travel"},
	{"restaurant", "Food"},
	{"supermarket", "Food"},
}

var (
	channelPrefix = regexp.MustCompile(`(?i)^(pos(\s+purchase)?|web(\s+purchase)?|nip(\s+trf)?|trf|transfer|ussd|mob|atm(\s+wdl)?)[\s:/\-]+`)
	longNumbers   = regexp.MustCompile(`\d{6,}`)
	specialChars  = regexp.MustCompile(`[*#|]+`)
	spaces        = regexp.MustCompile(`\s+`)
	wordBoundary  = regexp.MustCompile(`[^a-z0-9&]+`)
)

func cleanNarration(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for {
		next := channelPrefix.ReplaceAllString(cleaned, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	cleaned = longNumbers.ReplaceAllString(cleaned, "")
	cleaned = specialChars.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(spaces.ReplaceAllString(cleaned, " "), " /-:")
	return cleaned
}

func containsWord(haystack, needle string) bool {
	padded := " " + wordBoundary.ReplaceAllString(haystack, " ") + " "
	return strings.Contains(padded, " "+needle+" ")
}

// NormalizeCounterparty cleans a bank narration and guesses its category.
func NormalizeCounterparty(narration string) Counterparty {
	cleaned := cleanNarration(narration)
	lower := strings.ToLower(cleaned)

	for _, m := range knownCounterparties {
		if containsWord(lower, m.key) {
			return m.info
		}
	}

	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return Counterparty{Name: formatName(cleaned), Category: kw.category, Confidence: 0.6}
		}
	}

	return Counterparty{Name: formatName(cleaned), Category: "Other", Confidence: 0.3}
}

// formatName title-cases a cleaned narration for display.
func formatName(cleaned string) string {
	caser := cases.Title(language.English)
	words := strings.Fields(cleaned)
	for i, word := range words {
		if len(word) > 3 {
			words[i] = caser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToUpper(word)
		}
	}

	result := strings.Join(words, " ")
	if r := []rune(result); len(r) > 50 {
		result = string(r[:50])
	}
	return result
}
