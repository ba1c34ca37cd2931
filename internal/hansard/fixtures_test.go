package hansard_test

import (
	"time"

	"github.com/google/uuid"

	"hansard/internal/domain"
	"hansard/internal/registry"
	"hansard/internal/resolver"
)

var registryTakenAt = time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)

type roster struct {
	johnTan  domain.Member
	siti     domain.Member
	anwar    domain.Member
	limGuan  domain.Member
	ahmad    domain.Member
	petaling domain.Member
}

func newRoster() roster {
	return roster{
		johnTan:  domain.Member{ID: uuid.New(), Name: "John Tan", Constituency: "Kota Bharu", Party: "PH"},
		siti:     domain.Member{ID: uuid.New(), Name: "Siti Aminah binti Ahmad", Constituency: "Sungai Petani", Party: "PN"},
		anwar:    domain.Member{ID: uuid.New(), Name: "Dato' Sri Anwar bin Ibrahim", Constituency: "Tambun", Party: "PH"},
		limGuan:  domain.Member{ID: uuid.New(), Name: "Lim Guan Eng", Constituency: "Bagan", Party: "PH"},
		ahmad:    domain.Member{ID: uuid.New(), Name: "Ahmad bin Ismail", Constituency: "Pasir Mas", Party: "PN"},
		petaling: domain.Member{ID: uuid.New(), Name: "Lee Chean Chung", Constituency: "Petaling Jaya", Party: "PH"},
	}
}

func (r roster) members() []domain.Member {
	return []domain.Member{r.johnTan, r.siti, r.anwar, r.limGuan, r.ahmad, r.petaling}
}

func (r roster) cascade() *resolver.Cascade {
	return resolver.New(registry.NewSnapshot(r.members(), registryTakenAt))
}
