package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/kmsig/signature"
)

// Write encodes sigs as a signature file of dimension dim.
func Write(w io.Writer, dim int, sigs []*signature.Signature) error {
	if dim <= 0 || dim%8 != 0 {
		return fmt.Errorf("%w: dimension %d is not a positive multiple of 8", ErrInvalidHeader, dim)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", dim); err != nil {
		return err
	}

	buf := make([]byte, 0, signature.ByteLen(dim))
	for i, s := range sigs {
		if s.Dim() != dim {
			return fmt.Errorf("%w: signature %d has %d bits, want %d", ErrDimensionMismatch, i, s.Dim(), dim)
		}
		buf = s.AppendBytes(buf[:0])
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteIDs writes one identifier per line.
func WriteIDs(w io.Writer, ids []string) error {
	bw := bufio.NewWriter(w)
	for _, id := range ids {
		if _, err := bw.WriteString(id); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteAssignments writes a header and one "identifier,cluster" row per
// vector.
func WriteAssignments(w io.Writer, ids []string, assignments []int) error {
	if len(ids) != len(assignments) {
		return fmt.Errorf("%w: %d identifiers, %d assignments", ErrLengthMismatch, len(ids), len(assignments))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"identifier", "cluster"}); err != nil {
		return err
	}
	for i, id := range ids {
		if err := cw.Write([]string{id, strconv.Itoa(assignments[i])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrace writes a header and one "round,rmse" row per completed round,
// rounds counted from 1.
func WriteTrace(w io.Writer, trace []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"round", "rmse"}); err != nil {
		return err
	}
	for i, rmse := range trace {
		row := []string{strconv.Itoa(i + 1), strconv.FormatFloat(rmse, 'g', -1, 64)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
