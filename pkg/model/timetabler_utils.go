package model

import (
	"fmt"
	"strings"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type unassignableError struct {
	courses []string
}

func (err unassignableError) Error() string {
	return fmt.Sprintf("not all courses can be assigned a room: { %v }", strings.Join(err.courses, ", "))
}

// ReassignRooms keeps every start time of the schedule and chooses the rooms anew. Courses are split into groups of
// courses linked by overlapping intervals and each group is given pairwise distinct rooms through a maximum matching,
// hence no room is ever double-booked. A room is eligible for a course when the course fits in it and the room's
// first availability interval contains the course
func ReassignRooms(schedule Schedule, problem Problem) (Schedule, error) {
	if schedule.Len() != len(problem.Courses) {
		return Schedule{}, fmt.Errorf("schedule holds %d courses but the problem defines %d", schedule.Len(), len(problem.Courses))
	}

	reassigned := schedule.Clone()
	for course := range reassigned.assignments {
		reassigned.derive(problem, uint64(course))
	}

	for _, component := range overlapComponents(reassigned, problem) {
		//** Build course-room relationships
		rooms := make([]uint64, 0)
		relationships := make(map[[2]uint64]bool)
		for _, course := range component {
			interval := reassigned.interval(problem, course)
			for _, room := range problem.Rooms {
				if !eligible(problem, course, room, interval) {
					continue
				}
				if !lo.Contains(rooms, room.Id) {
					rooms = append(rooms, room.Id)
				}
				relationships[[2]uint64{course, room.Id}] = true
			}
		}

		//** Match courses with rooms
		assignments, err := assignRooms(component, rooms, relationships)
		if _, ok := err.(unassignableError); ok {
			return Schedule{}, unassignableError{
				courses: lo.Map(component, func(course uint64, _ int) string { return problem.Courses[course].Name }),
			}
		} else if err != nil {
			return Schedule{}, err
		}

		for _, assignment := range assignments {
			course, room := assignment[0], assignment[1]
			reassigned.assignments[course].room = room
		}
	}

	return reassigned, nil
}

func eligible(problem Problem, course uint64, room Room, interval Interval) bool {
	return room.Capacity >= problem.Courses[course].Students &&
		len(room.Availability) > 0 &&
		room.Availability[0].Contains(interval)
}

// overlapComponents returns the connected components of the graph whose nodes are the assigned courses and whose
// edges join courses with overlapping intervals
func overlapComponents(schedule Schedule, problem Problem) [][]uint64 {
	courses := lo.Filter(lo.Range(schedule.Len()), func(course int, _ int) bool {
		return schedule.assignments[course].assigned
	})

	visited := make(map[int]bool)
	components := make([][]uint64, 0)
	for _, root := range courses {
		if visited[root] {
			continue
		}

		component := []uint64{}
		queue := []int{root}
		visited[root] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			component = append(component, uint64(current))

			interval := schedule.interval(problem, uint64(current))
			for _, neighbor := range courses {
				if !visited[neighbor] && interval.Overlaps(schedule.interval(problem, uint64(neighbor))) {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

func assignRooms(courses []uint64, rooms []uint64, relationships map[[2]uint64]bool) ([][2]uint64, error) {
	assignments := make([][2]uint64, 0, len(courses))

	// Build neighbors predicate based on relationships
	neighbors := func(courseAny any, roomAny any) (bool, error) {
		course := courseAny.(uint64)
		room := roomAny.(uint64)

		return relationships[[2]uint64{course, room}], nil
	}

	// Transform courses and rooms to slices of any
	coursesAny, roomsAny := lo.Map(courses, func(course uint64, _ int) any { return course }), lo.Map(rooms, func(room uint64, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	// Check the matching is a maximum one
	if len(matching) < len(courses) {
		return nil, unassignableError{}
	}

	for _, edge := range matching {
		courseIndex, roomIndex := edge.Node1, edge.Node2-len(courses)
		assignments = append(assignments, [2]uint64{courses[courseIndex], rooms[roomIndex]})
	}

	return assignments, nil
}
