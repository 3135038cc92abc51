package model

import "github.com/samber/lo"

type CourseReport struct {
	Course   uint64
	Assigned bool
	Valid    bool
	Violated Constraint // First violated constraint in evaluation order, NoConstraint when valid
}

type Report []CourseReport

// Valid reports whether every course is assigned and satisfies every constraint
func (report Report) Valid() bool {
	return lo.EveryBy(report, func(courseReport CourseReport) bool {
		return courseReport.Assigned && courseReport.Valid
	})
}

func (report Report) Violations() Report {
	return lo.Filter(report, func(courseReport CourseReport, _ int) bool { return !courseReport.Valid })
}

// Validate evaluates every course of a (possibly partial) schedule. The constraints are re-run one by one so that the
// report names the first violated constraint of each course. Unassigned courses are reported as valid
func Validate(schedule Schedule, problem Problem) Report {
	checker := NewConstraintChecker(problem)

	//** Derive every end time on a private copy
	derived := schedule.Clone()
	for course := range derived.assignments {
		derived.derive(problem, uint64(course))
	}

	report := make(Report, 0, derived.Len())
	for index, assignment := range derived.assignments {
		course := uint64(index)
		courseReport := CourseReport{
			Course:   course,
			Assigned: assignment.Assigned(),
			Valid:    true,
			Violated: NoConstraint,
		}

		if !checker.CheckAll(&derived, course) {
			courseReport.Valid = false
			// A course the problem does not define violates no particular constraint
			courseReport.Violated = lo.FindOrElse(Constraints, NoConstraint, func(constraint Constraint) bool {
				return !checker.Check(constraint, &derived, course)
			})
		}
		report = append(report, courseReport)
	}
	return report
}
