package model

import (
	"cmp"
	"iter"
	"slices"
)

// SlotIncrement is the fixed step, in hours, between consecutive candidate start times.
// It does not depend on the courses' durations
const SlotIncrement = 1.0

// Slot is a candidate (start time, room) pair feasible with respect to the room's opening hours alone
type Slot struct {
	Time float64
	Room uint64
}

// Slots yields every candidate slot within the working hours, time by time and room by room.
// Only the first availability interval of a room is consulted; rooms without any interval are never offered
func Slots(problem Problem) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		workingHours := problem.WorkingHours
		for step := 0; ; step++ {
			time := workingHours.Start + float64(step)*SlotIncrement
			if time >= workingHours.End {
				return
			}

			window := Interval{Start: time, End: time + SlotIncrement}
			for _, room := range problem.Rooms {
				if len(room.Availability) == 0 || !room.Availability[0].Contains(window) {
					continue
				}
				if !yield(Slot{Time: time, Room: room.Id}) {
					return
				}
			}
		}
	}
}

// CandidateSlots materializes Slots sorted by time, keeping the rooms' definition order among equal times
func CandidateSlots(problem Problem) []Slot {
	slots := slices.Collect(Slots(problem))
	slices.SortStableFunc(slots, func(a, b Slot) int { return cmp.Compare(a.Time, b.Time) })
	return slots
}
