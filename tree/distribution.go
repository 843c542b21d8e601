package tree

import (
	"fmt"
	"sort"
	"strings"
)

/*
Distribution represents the number of training samples of each class
(value of the target attribute) that satisfy some criteria.
*/
type Distribution map[string]int

/*
Total returns the number of samples accounted in the distribution.
*/
func (d Distribution) Total() int {
	var total int
	for _, c := range d {
		total += c
	}
	return total
}

/*
Majority takes the canonical order of the classes and returns the class
with the highest count and that count. Ties are resolved in favour of the
class appearing first in the given order. Classes in the distribution that
are missing from the order are considered after the ordered ones,
alphabetically.
Majority returns false when the distribution is empty, as no class can be
elected then.
*/
func (d Distribution) Majority(order []string) (string, int, bool) {
	if d.Total() == 0 {
		return "", 0, false
	}
	var (
		class string
		count = -1
	)
	for _, c := range d.ordered(order) {
		if d[c] > count {
			class, count = c, d[c]
		}
	}
	return class, count, true
}

/*
Probabilities returns a map of class to float64 containing the
proportion of samples of each class.
*/
func (d Distribution) Probabilities() map[string]float64 {
	result := make(map[string]float64, len(d))
	total := d.Total()
	for c, n := range d {
		if total == 0 {
			result[c] = 0
			continue
		}
		result[c] = float64(n) / float64(total)
	}
	return result
}

func (d Distribution) String() string {
	return strings.Replace(fmt.Sprintf("%v", map[string]int(d)), "map", "", 1)
}

func (d Distribution) ordered(order []string) []string {
	result := make([]string, 0, len(d))
	seen := make(map[string]bool, len(d))
	for _, c := range order {
		if _, ok := d[c]; ok && !seen[c] {
			result = append(result, c)
			seen[c] = true
		}
	}
	var rest []string
	for c := range d {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(result, rest...)
}
