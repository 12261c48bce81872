package judge

import "math/big"

// Shuffle permutes seq in place with a left-to-right Fisher-Yates pass: for
// each index j it draws k = src.Next() mod (j+1) and swaps seq[j] with
// seq[k]. The modulus growing with j is what makes the permutation uniform;
// consuming exactly len(seq) draws keeps multi-case shuffles aligned on a
// shared Stream.
//
// Precondition: src must be non-nil.
func Shuffle(seq []int, src Stream) {
	k := new(big.Int)
	m := new(big.Int)
	for j := range seq {
		m.SetInt64(int64(j + 1))
		k.Mod(src.Next(), m)
		i := int(k.Int64())
		seq[j], seq[i] = seq[i], seq[j]
	}
}
