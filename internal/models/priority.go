package models

// Fixed priority orders for sorting herpetofauna summary rows. Sort
// correctness is a first-class property here, so the orders live as
// explicit tables with rank lookups rather than inline literals.
var (
	// TaxaOrder is the primary sort key order for herp summaries.
	TaxaOrder = []string{"Amphibian", "Reptile", ValueUnknown}

	// CategoryOrder ranks coarse threat categories, most severe first.
	CategoryOrder = []string{
		"Threatened",
		"At Risk",
		"Not Threatened",
		"Non-resident Native",
		"Introduced and Naturalised",
		"Extinct",
		ValueUnknown,
	}

	// StatusOrder ranks fine-grained threat statuses, most severe first.
	StatusOrder = []string{
		"Nationally Critical",
		"Nationally Endangered",
		"Nationally Vulnerable",
		"Nationally Increasing",
		"Declining",
		"Relict",
		"Uncommon",
		"Recovering",
		"Migrant",
		"Vagrant",
		"Coloniser",
		"Introduced and Naturalised",
		"Extinct",
		ValueUnknown,
	}
)

// TaxaRank returns the sort position of a taxa group.
func TaxaRank(taxa string) int { return rank(TaxaOrder, taxa) }

// CategoryRank returns the sort position of a threat category.
func CategoryRank(category string) int { return rank(CategoryOrder, category) }

// StatusRank returns the sort position of a threat status.
func StatusRank(status string) int { return rank(StatusOrder, status) }

// rank returns the index of value in order. Values not present sort after
// every listed value, including the trailing "unknown" entry.
func rank(order []string, value string) int {
	for i, v := range order {
		if v == value {
			return i
		}
	}
	return len(order)
}
