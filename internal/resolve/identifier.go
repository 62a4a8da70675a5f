package resolve

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/ItIsUday/artron/internal/model"
)

const (
	// TargetIDWidth is the zero-padded width of a TIC id in archive paths.
	TargetIDWidth = 16
	// MaxEpoch is the largest sector that fits the 4-digit sector token.
	MaxEpoch = 9999

	targetGroupWidth = 4

	identifierPrefix = "mast:HLSP/tess-spoc/"
	targetSegment    = "/target/"
	filePrefix       = "hlsp_tess-spoc_tess_phot_"
	fileSuffix       = "_tess_v1_lc.fits"
)

// EncodeIdentifier returns the MAST resource identifier of the TESS-SPOC
// light curve for targetID observed in sector epoch:
//
//	mast:HLSP/tess-spoc/s0007/target/0000/0000/1234/5678/hlsp_tess-spoc_tess_phot_0000000012345678-s0007_tess_v1_lc.fits
//
// The archive matches these paths byte for byte, so inputs that do not fit
// the fixed-width fields are rejected rather than truncated.
func EncodeIdentifier(targetID string, epoch int) (string, error) {
	padded, err := PadTargetID(targetID)
	if err != nil {
		return "", err
	}
	tok, err := EpochToken(epoch)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(identifierPrefix) + 2*len(tok) + 2*TargetIDWidth + 64)
	b.WriteString(identifierPrefix)
	b.WriteString(tok)
	b.WriteString(targetSegment)
	b.WriteString(targetPath(padded))
	b.WriteByte('/')
	b.WriteString(filePrefix)
	b.WriteString(padded)
	b.WriteByte('-')
	b.WriteString(tok)
	b.WriteString(fileSuffix)
	return b.String(), nil
}

// PadTargetID left-pads a TIC id with zeros to TargetIDWidth characters.
func PadTargetID(targetID string) (string, error) {
	if !isDigits(targetID) {
		return "", &model.CatalogFormatError{
			Column: ColumnTargetID,
			Value:  targetID,
			Reason: "target id must be a non-empty string of digits",
		}
	}
	if len(targetID) > TargetIDWidth {
		return "", &model.IdentifierTooLongError{TargetID: targetID, Max: TargetIDWidth}
	}
	return strings.Repeat("0", TargetIDWidth-len(targetID)) + targetID, nil
}

// EpochToken formats a sector as 's' followed by four zero-padded digits.
func EpochToken(epoch int) (string, error) {
	if epoch < 0 || epoch > MaxEpoch {
		return "", &model.EpochOutOfRangeError{Epoch: epoch, Max: MaxEpoch}
	}
	return fmt.Sprintf("s%04d", epoch), nil
}

// targetPath splits a padded id into 4-character groups joined by '/'.
func targetPath(padded string) string {
	groups := make([]string, 0, TargetIDWidth/targetGroupWidth)
	for i := 0; i < len(padded); i += targetGroupWidth {
		groups = append(groups, padded[i:i+targetGroupWidth])
	}
	return strings.Join(groups, "/")
}

// FileName returns the basename of an identifier, which is also the name the
// file is stored under locally.
func FileName(identifier string) string {
	return path.Base(identifier)
}

// DecodeIdentifier recovers the (target, sector) pair from an identifier
// produced by EncodeIdentifier. The returned TargetID has its padding removed.
// Identifiers whose directory and file name disagree are rejected.
func DecodeIdentifier(identifier string) (model.Pair, error) {
	bad := func(reason string) (model.Pair, error) {
		return model.Pair{}, fmt.Errorf("decode identifier %q: %s", identifier, reason)
	}

	rest, ok := strings.CutPrefix(identifier, identifierPrefix)
	if !ok {
		return bad("missing " + identifierPrefix + " prefix")
	}
	tok, rest, ok := strings.Cut(rest, targetSegment)
	if !ok {
		return bad("missing target segment")
	}
	epoch, err := parseEpochToken(tok)
	if err != nil {
		return bad(err.Error())
	}

	dir, file := path.Split(rest)
	padded := strings.ReplaceAll(strings.TrimSuffix(dir, "/"), "/", "")
	if len(padded) != TargetIDWidth || !isDigits(padded) || targetPath(padded)+"/" != dir {
		return bad("target path must be four groups of four digits")
	}

	want := filePrefix + padded + "-" + tok + fileSuffix
	if file != want {
		return bad("file name does not match target path and sector")
	}

	return model.Pair{TargetID: canonicalTargetID(padded), Epoch: epoch}, nil
}

// canonicalTargetID strips leading zeros from a digit string, so "0100" and
// "100" name the same target.
func canonicalTargetID(id string) string {
	id = strings.TrimLeft(id, "0")
	if id == "" {
		return "0"
	}
	return id
}

func parseEpochToken(tok string) (int, error) {
	digits, ok := strings.CutPrefix(tok, "s")
	if !ok || len(digits) != 4 || !isDigits(digits) {
		return 0, fmt.Errorf("sector token %q must be 's' and four digits", tok)
	}
	return strconv.Atoi(digits)
}
