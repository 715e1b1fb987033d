package models

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// NoEntryNumber отмечает участника, выбывшего из первого раунда.
const NoEntryNumber = -1

// Date - календарная дата в формате YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	// Бэкенд иногда отдаёт полный timestamp.
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Participant - лошадь, заявленная на турнир, вместе с её положением в сетке.
type Participant struct {
	ID           int    `json:"id" db:"id"`
	HorseID      int    `json:"horseId" db:"id_horse"`
	Name         string `json:"name" db:"horse_name"`
	DateOfBirth  Date   `json:"dateOfBirth" db:"date_of_birth"`
	EntryNumber  *int   `json:"entryNumber,omitempty" db:"entry_number"`
	RoundReached *int   `json:"roundReached,omitempty" db:"round_reached"`
}

// Round возвращает RoundReached; не заданное значение считается 0.
func (p *Participant) Round() int {
	if p == nil || p.RoundReached == nil {
		return 0
	}
	return *p.RoundReached
}

func (p *Participant) SetRound(round int) {
	p.RoundReached = &round
}

// Entry returns EntryNumber and whether the participant currently holds a seed slot.
func (p *Participant) Entry() (int, bool) {
	if p == nil || p.EntryNumber == nil || *p.EntryNumber == NoEntryNumber {
		return NoEntryNumber, false
	}
	return *p.EntryNumber, true
}

func (p *Participant) SetEntry(entry int) {
	p.EntryNumber = &entry
}

// Clone возвращает глубокую копию без общих указателей.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	c := *p
	if p.EntryNumber != nil {
		e := *p.EntryNumber
		c.EntryNumber = &e
	}
	if p.RoundReached != nil {
		r := *p.RoundReached
		c.RoundReached = &r
	}
	return &c
}
