package aggregate

// Share is one platform's slice of the total over the filtered range.
type Share struct {
	Platform string
	Amount   float64
	Percent  float64
}

// Shares sums amounts per platform and computes each platform's share of
// the grand total. The synthetic all-platforms label is excluded so the
// percentages add to 100. Output follows first-encounter platform order.
func Shares(rows []Row) []Share {
	index := make(map[string]int)
	var shares []Share
	var total float64

	for _, row := range rows {
		if row.Platform == "" || row.Platform == AllPlatforms {
			continue
		}
		total += row.Amount
		if i, ok := index[row.Platform]; ok {
			shares[i].Amount += row.Amount
		} else {
			index[row.Platform] = len(shares)
			shares = append(shares, Share{Platform: row.Platform, Amount: row.Amount})
		}
	}

	if total != 0 {
		for i := range shares {
			shares[i].Percent = shares[i].Amount / total * 100
		}
	}
	return shares
}
