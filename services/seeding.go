package services

import (
	"sort"

	"github.com/Dosada05/horse-tournament/models"
)

// roundPoints - очки за раунд, достигнутый в прошлом турнире:
// за первый ничего, дальше 1, 3, 5, ...
func roundPoints(round int) int {
	if round < 2 {
		return 0
	}
	return 2*round - 3
}

// SeedParticipants возвращает копии участников в порядке слотов, с номерами и
// roundReached = 1. Сильнейшая по прошлым результатам лошадь встречается со
// слабейшей: слот 2k получает место k, слот 2k+1 место n-1-k.
// При равных очках сохраняется алфавитный порядок.
func SeedParticipants(participants []*models.Participant, results []models.PriorResult) []*models.Participant {
	points := make(map[int]int, len(participants))
	for _, r := range results {
		points[r.HorseID] += roundPoints(r.RoundReached)
	}

	ranked := make([]*models.Participant, len(participants))
	for i, p := range participants {
		ranked[i] = p.Clone()
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Name < ranked[j].Name
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return points[ranked[i].HorseID] > points[ranked[j].HorseID]
	})

	n := len(ranked)
	seeded := make([]*models.Participant, n)
	for k := 0; k < n/2; k++ {
		top, bottom := ranked[k], ranked[n-1-k]
		top.SetEntry(2 * k)
		bottom.SetEntry(2*k + 1)
		seeded[2*k], seeded[2*k+1] = top, bottom
	}
	if n%2 == 1 {
		mid := ranked[n/2]
		mid.SetEntry(n - 1)
		seeded[n-1] = mid
	}
	for _, p := range seeded {
		p.SetRound(1)
	}
	return seeded
}
