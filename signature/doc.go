// Package signature provides fixed-dimension bit-vector signatures and the
// Hamming vector space used to cluster them.
//
// A Signature is a bitset of Dim bits with an identifier. HammingSpace
// implements kmeans.Space: the distance is the number of differing bits and a
// centroid is the per-dimension (weighted) majority vote of its members.
//
//	space := signature.HammingSpace{}
//	km, err := kmeans.New[*signature.Signature](space, kmeans.DefaultConfig(16))
package signature
