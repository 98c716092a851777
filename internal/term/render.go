package term

import (
	"fmt"
	"sort"
	"strings"

	"marvin/internal/house"
)

func renderRollover(res *RolloverResult) string {
	var b strings.Builder
	b.WriteString("🏰 *The term has ended!* 🏰\n\n")

	if !res.HadPoints {
		b.WriteString("Not a single point was earned. The hourglasses stand empty. How very Marvin.")
		return b.String()
	}

	type houseTotal struct {
		h     house.House
		total int
	}
	ranked := make([]houseTotal, 0, len(res.Totals))
	for h, total := range res.Totals {
		ranked = append(ranked, houseTotal{h, total})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].total > ranked[j].total })

	b.WriteString("*Final standings:*\n")
	for _, ht := range ranked {
		fmt.Fprintf(&b, "%s %s: %d\n", ht.h.Emoji(), ht.h.DisplayName(), ht.total)
	}

	fmt.Fprintf(&b, "\n🏆 *%s %s wins the House Cup with %d points!*",
		res.WinningHouse.Emoji(), res.WinningHouse.DisplayName(), res.Totals[res.WinningHouse])

	if res.Champion != nil {
		fmt.Fprintf(&b, "\n⚔️ Champion: %s with %d points.", res.Champion.Username, res.Champion.Points)
	}

	b.WriteString("\n\nA new term begins now. Everybody back to zero.")
	return b.String()
}
