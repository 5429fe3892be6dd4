// internal/bot/similarity.go
package bot

// similarity computes the Ratcliff/Obershelp ratio of two strings:
// twice the number of matched characters over the combined length.
// Matching blocks are found greedily, longest first. The 0.66 and 0.35
// cutoffs used by the callers were tuned against exactly this ratio, so
// the matcher stays hand-rolled. Inputs are compared rune-wise; callers
// pass normalized text.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	m := matchedRunes(ra, rb)
	return 2.0 * float64(m) / float64(total)
}

func matchedRunes(a, b []rune) int {
	type span struct{ alo, ahi, blo, bhi int }

	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		besti, bestj, bestSize := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if bestSize == 0 {
			continue
		}
		matched += bestSize

		queue = append(queue,
			span{s.alo, besti, s.blo, bestj},
			span{besti + bestSize, s.ahi, bestj + bestSize, s.bhi},
		)
	}
	return matched
}

func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestSize := alo, blo, 0
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestSize
}
