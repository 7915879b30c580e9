package lifecycle

import (
	"fmt"

	"github.com/javajoker/vehicle-gateway/internal/models"
)

type Side string

const (
	SideSeller Side = "seller"
	SideBuyer  Side = "buyer"
)

type EvidenceFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// EvidenceSet collects contract photos per party. It refuses a fourth photo
// for either side and is ready only when both sides hold exactly three.
type EvidenceSet struct {
	seller []EvidenceFile
	buyer  []EvidenceFile
}

func (s *EvidenceSet) Add(side Side, file EvidenceFile) error {
	switch side {
	case SideSeller:
		if len(s.seller) >= models.PhotosPerParty {
			return fmt.Errorf("%s: %w", side, ErrTooManyPhotos)
		}
		s.seller = append(s.seller, file)
	case SideBuyer:
		if len(s.buyer) >= models.PhotosPerParty {
			return fmt.Errorf("%s: %w", side, ErrTooManyPhotos)
		}
		s.buyer = append(s.buyer, file)
	default:
		return fmt.Errorf("%q: %w", side, ErrUnknownSide)
	}
	return nil
}

func (s *EvidenceSet) Count(side Side) int {
	switch side {
	case SideSeller:
		return len(s.seller)
	case SideBuyer:
		return len(s.buyer)
	}
	return 0
}

func (s *EvidenceSet) Ready() bool {
	return len(s.seller) == models.PhotosPerParty && len(s.buyer) == models.PhotosPerParty
}

func (s *EvidenceSet) Validate() error {
	if !s.Ready() {
		return fmt.Errorf("seller=%d buyer=%d: %w", len(s.seller), len(s.buyer), ErrIncompleteEvidence)
	}
	return nil
}

// Ordered returns seller photos followed by buyer photos, the order the
// backend partitions them in.
func (s *EvidenceSet) Ordered() []EvidenceFile {
	files := make([]EvidenceFile, 0, len(s.seller)+len(s.buyer))
	files = append(files, s.seller...)
	return append(files, s.buyer...)
}
