package commands

import (
	"strconv"

	"github.com/Sumatoshi-tech/treepatch/pkg/span"
	"github.com/Sumatoshi-tech/treepatch/pkg/tree"
)

// correlator assigns fresh shared identities to element pairs that
// represent the same logical node in the old and new trees.
type correlator struct {
	next int
}

func (c *correlator) fresh() string {
	c.next++

	return "m" + strconv.Itoa(c.next)
}

// correlateTrees prepares an independently parsed old/new tree pair for
// rewriting. New-tree spans are cleared first: they index the new file's
// buffer, not the rewrite source. Sequence elements that survive the change
// are then given matching identities, and structurally equal subtrees adopt
// the old tree's spans so the original text can be salvaged after a reprint.
func correlateTrees(oldRoot, newRoot *tree.Node) {
	clearSpans(newRoot)

	c := &correlator{}
	c.pair(oldRoot, newRoot)
}

func clearSpans(n *tree.Node) {
	tree.Walk(n, func(m *tree.Node) bool {
		m.Span = span.Dummy

		return true
	})
}

// pair correlates two nodes already considered the same logical element.
// Equal subtrees adopt old spans wholesale; otherwise correlation descends
// field by field.
func (c *correlator) pair(oldNode, newNode *tree.Node) {
	if oldNode.Kind != newNode.Kind || len(oldNode.Fields) != len(newNode.Fields) {
		return
	}

	if tree.Equal(oldNode, newNode) {
		adoptSpans(oldNode, newNode)

		return
	}

	for i := range oldNode.Fields {
		of := &oldNode.Fields[i]
		nf := &newNode.Fields[i]

		if of.Name != nf.Name || of.IsSeq != nf.IsSeq {
			return
		}

		switch {
		case of.IsSeq:
			c.pairSeq(of.Seq, nf.Seq)
		case of.Child != nil && nf.Child != nil:
			c.pair(of.Child, nf.Child)
		}
	}
}

// pairSeq correlates two element sequences. Structurally equal elements are
// matched first via a longest common subsequence, so reordered survivors
// keep their identity; the leftovers in each gap are paired positionally
// when their kinds agree, which lets edited elements rewrite in place
// instead of being dropped and reprinted.
func (c *correlator) pairSeq(olds, news []*tree.Node) {
	anchors := lcsPairs(olds, news)

	prevOld, prevNew := 0, 0

	for _, a := range append(anchors, [2]int{len(olds), len(news)}) {
		c.pairGap(olds[prevOld:a[0]], news[prevNew:a[1]])

		if a[0] < len(olds) {
			id := c.fresh()
			olds[a[0]].ID = id
			news[a[1]].ID = id

			c.pair(olds[a[0]], news[a[1]])

			prevOld, prevNew = a[0]+1, a[1]+1
		}
	}

	c.pairMoves(olds, news)
}

// pairMoves links leftovers that are structurally equal to an element
// elsewhere in the list: those are moves, and a shared identity lets the
// rewrite reuse the original text at the new position.
func (c *correlator) pairMoves(olds, news []*tree.Node) {
	for _, n := range news {
		if n.ID != "" {
			continue
		}

		for _, o := range olds {
			if o.ID == "" && tree.Equal(o, n) {
				id := c.fresh()
				o.ID = id
				n.ID = id

				adoptSpans(o, n)

				break
			}
		}
	}
}

// pairGap positionally pairs same-kind elements between two anchors.
// Unpaired elements become deletions and insertions.
func (c *correlator) pairGap(olds, news []*tree.Node) {
	n := len(olds)
	if len(news) < n {
		n = len(news)
	}

	for i := 0; i < n; i++ {
		if olds[i].Kind != news[i].Kind {
			continue
		}

		id := c.fresh()
		olds[i].ID = id
		news[i].ID = id

		c.pair(olds[i], news[i])
	}
}

// lcsPairs returns the index pairs of a longest common subsequence of olds
// and news under structural equality, in increasing order.
func lcsPairs(olds, news []*tree.Node) [][2]int {
	n, m := len(olds), len(news)

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}

	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if tree.Equal(olds[i], news[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var pairs [][2]int

	for i, j := 0, 0; i < n && j < m; {
		switch {
		case tree.Equal(olds[i], news[j]):
			pairs = append(pairs, [2]int{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}

	return pairs
}

// adoptSpans copies spans from a subtree onto its structural twin.
func adoptSpans(oldNode, newNode *tree.Node) {
	newNode.Span = oldNode.Span

	for i := range oldNode.Fields {
		of := &oldNode.Fields[i]
		nf := &newNode.Fields[i]

		if of.Child != nil && nf.Child != nil {
			adoptSpans(of.Child, nf.Child)
		}

		for j := range of.Seq {
			if j < len(nf.Seq) {
				adoptSpans(of.Seq[j], nf.Seq[j])
			}
		}
	}
}
