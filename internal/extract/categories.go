package extract

import "strings"

// DefaultCategory is returned when no keyword matches
const DefaultCategory = "Other"

// categoryKeywords maps the first token of an item description to a
// category. Lookup is exact-match on the lowercased token, so ties are
// impossible. This is a coarse, extensible table, not a classifier;
// add rows here to cover more retailers.
var categoryKeywords = map[string]string{
	// Store brands
	"gv":       "Grocery", // Great Value
	"mm":       "Grocery", // Market Pantry style marks
	"kirkland": "Grocery",
	"365":      "Grocery",

	// Groceries
	"milk":   "Grocery",
	"bread":  "Grocery",
	"eggs":   "Grocery",
	"cheese": "Grocery",
	"butter": "Grocery",
	"yogurt": "Grocery",
	"cereal": "Grocery",
	"rice":   "Grocery",
	"pasta":  "Grocery",

	// Produce
	"apples":   "Produce",
	"bananas":  "Produce",
	"oranges":  "Produce",
	"grapes":   "Produce",
	"lettuce":  "Produce",
	"tomato":   "Produce",
	"tomatoes": "Produce",
	"onions":   "Produce",
	"potatoes": "Produce",

	// Meat & seafood
	"chicken": "Meat",
	"beef":    "Meat",
	"pork":    "Meat",
	"turkey":  "Meat",
	"salmon":  "Meat",
	"shrimp":  "Meat",

	// Beverages
	"coffee": "Beverages",
	"tea":    "Beverages",
	"soda":   "Beverages",
	"juice":  "Beverages",
	"water":  "Beverages",
	"beer":   "Alcohol",
	"wine":   "Alcohol",

	// Household & personal care
	"paper":      "Household",
	"detergent":  "Household",
	"soap":       "Household",
	"shampoo":    "Personal Care",
	"toothpaste": "Personal Care",

	// Pharmacy
	"tylenol":  "Pharmacy",
	"advil":    "Pharmacy",
	"vitamins": "Pharmacy",
}

// Category assigns a category to an item description by looking up its
// first whitespace-delimited token, defaulting to "Other".
func Category(item string) string {
	fields := strings.Fields(strings.ToLower(item))
	if len(fields) == 0 {
		return DefaultCategory
	}
	if category, ok := categoryKeywords[fields[0]]; ok {
		return category
	}
	return DefaultCategory
}
