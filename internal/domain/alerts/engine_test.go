package alerts_test

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"farm-dashboard/internal/domain/alerts"

	. "github.com/smartystreets/goconvey/convey"
)

var today = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func dueIn(days int) *time.Time {
	t := alerts.DateOf(today).AddDate(0, 0, days)
	return &t
}

func rec(id string, days int) alerts.VaccinationRecord {
	return alerts.VaccinationRecord{
		ID:        id,
		Vaccine:   "Fiebre Aftosa",
		AppliedOn: alerts.DateOf(today).AddDate(-1, 0, 0),
		NextDue:   dueIn(days),
	}
}

func TestComputeAlerts(t *testing.T) {
	Convey("Given a vaccination roster", t, func() {

		Convey("When the roster is empty", func() {
			out, err := alerts.ComputeAlerts(nil, today)

			Convey("Then it yields an empty list and zero counts", func() {
				So(err, ShouldBeNil)
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
				So(alerts.Summarize(out), ShouldResemble, alerts.Summary{})
			})
		})

		Convey("When a single dose is ten days overdue", func() {
			roster := []alerts.Animal{{ID: "a1", Name: "Tormenta", Vaccinations: []alerts.VaccinationRecord{rec("v1", -10)}}}
			out, err := alerts.ComputeAlerts(roster, today)

			Convey("Then it yields one overdue alert", func() {
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, 1)
				So(out[0].DaysRemaining, ShouldEqual, -10)
				So(out[0].Urgency, ShouldEqual, alerts.UrgencyOverdue)
				So(out[0].Key(), ShouldEqual, "a1/v1")
			})
		})

		Convey("When one animal has doses at +45, +3 and +15 days", func() {
			roster := []alerts.Animal{{ID: "a1", Vaccinations: []alerts.VaccinationRecord{
				rec("v45", 45), rec("v3", 3), rec("v15", 15),
			}}}
			out, err := alerts.ComputeAlerts(roster, today)

			Convey("Then they are sorted urgent, upcoming, scheduled", func() {
				So(err, ShouldBeNil)
				So(len(out), ShouldEqual, 3)
				So(out[0].Vaccination.ID, ShouldEqual, "v3")
				So(out[0].Urgency, ShouldEqual, alerts.UrgencyUrgent)
				So(out[1].Vaccination.ID, ShouldEqual, "v15")
				So(out[1].Urgency, ShouldEqual, alerts.UrgencyUpcoming)
				So(out[2].Vaccination.ID, ShouldEqual, "v45")
				So(out[2].Urgency, ShouldEqual, alerts.UrgencyScheduled)
			})

			Convey("And the summary counts one urgent and one upcoming", func() {
				s := alerts.Summarize(out)
				So(s.Urgent, ShouldEqual, 1)
				So(s.Upcoming, ShouldEqual, 1)
				So(s.Overdue, ShouldEqual, 0)
				So(s.Scheduled, ShouldEqual, 1)
			})
		})

		Convey("When no record has a next due date", func() {
			roster := []alerts.Animal{
				{ID: "a1", Vaccinations: []alerts.VaccinationRecord{{ID: "v1", Vaccine: "Brucelosis", AppliedOn: today}}},
				{ID: "a2"},
			}
			out, err := alerts.ComputeAlerts(roster, today)

			Convey("Then nothing is alerted", func() {
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
				So(alerts.Summarize(out), ShouldResemble, alerts.Summary{})
			})
		})

		Convey("When a record carries a zero next due date", func() {
			bad := time.Time{}
			roster := []alerts.Animal{{ID: "a1", Vaccinations: []alerts.VaccinationRecord{
				{ID: "v1", AppliedOn: today, NextDue: &bad},
			}}}
			_, err := alerts.ComputeAlerts(roster, today)

			Convey("Then it fails with ErrInvalidDate instead of dropping it", func() {
				So(errors.Is(err, alerts.ErrInvalidDate), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "next_due")
			})
		})

		Convey("When a record has no administration date", func() {
			roster := []alerts.Animal{{ID: "a1", Vaccinations: []alerts.VaccinationRecord{
				{ID: "v1", NextDue: dueIn(3)},
			}}}
			_, err := alerts.ComputeAlerts(roster, today)

			Convey("Then it fails with ErrInvalidDate", func() {
				So(errors.Is(err, alerts.ErrInvalidDate), ShouldBeTrue)
			})
		})
	})
}

func TestClassify_Boundaries(t *testing.T) {
	Convey("Given today D", t, func() {
		cases := []struct {
			days int
			want alerts.Urgency
		}{
			{-1, alerts.UrgencyOverdue},
			{0, alerts.UrgencyUrgent},
			{7, alerts.UrgencyUrgent},
			{8, alerts.UrgencyUpcoming},
			{30, alerts.UrgencyUpcoming},
			{31, alerts.UrgencyScheduled},
		}

		for _, c := range cases {
			c := c
			Convey(fmt.Sprintf("A dose due at D%+d classifies %s", c.days, c.want), func() {
				roster := []alerts.Animal{{ID: "a", Vaccinations: []alerts.VaccinationRecord{rec("v", c.days)}}}
				out, err := alerts.ComputeAlerts(roster, today)
				So(err, ShouldBeNil)
				So(out[0].DaysRemaining, ShouldEqual, c.days)
				So(out[0].Urgency, ShouldEqual, c.want)
			})
		}
	})
}

func TestComputeAlerts_TimeOfDayIgnored(t *testing.T) {
	Convey("Given a next due date stored late at night", t, func() {
		late := time.Date(2025, 3, 17, 23, 59, 0, 0, time.UTC)
		early := time.Date(2025, 3, 10, 0, 1, 0, 0, time.UTC)
		roster := []alerts.Animal{{ID: "a", Vaccinations: []alerts.VaccinationRecord{{ID: "v", AppliedOn: early, NextDue: &late}}}}

		Convey("Then only calendar days count", func() {
			out, err := alerts.ComputeAlerts(roster, early)
			So(err, ShouldBeNil)
			So(out[0].DaysRemaining, ShouldEqual, 7)
			So(out[0].Urgency, ShouldEqual, alerts.UrgencyUrgent)
		})
	})
}

func largeRoster() []alerts.Animal {
	offsets := []int{12, -4, 40, 0, 7, -30, 12, 90, 31, -1, 8, 30}
	roster := make([]alerts.Animal, 0, 4)
	for i := 0; i < 4; i++ {
		a := alerts.Animal{ID: fmt.Sprintf("a%d", i), Name: fmt.Sprintf("Animal %d", i)}
		for j := 0; j < 3; j++ {
			k := i*3 + j
			a.Vaccinations = append(a.Vaccinations, rec(fmt.Sprintf("v%d", k), offsets[k]))
		}
		// una dosis sin refuerzo por animal
		a.Vaccinations = append(a.Vaccinations, alerts.VaccinationRecord{ID: fmt.Sprintf("n%d", i), AppliedOn: today})
		roster = append(roster, a)
	}
	return roster
}

func TestComputeAlerts_Properties(t *testing.T) {
	Convey("Given a mixed roster", t, func() {
		roster := largeRoster()

		Convey("Then every record with a next due date yields exactly one alert", func() {
			out, err := alerts.ComputeAlerts(roster, today)
			So(err, ShouldBeNil)
			So(len(out), ShouldEqual, 12)

			seen := map[string]int{}
			for _, a := range out {
				seen[a.Key()]++
			}
			for _, a := range roster {
				for _, v := range a.Vaccinations {
					if v.NextDue == nil {
						So(seen[a.ID+"/"+v.ID], ShouldEqual, 0)
					} else {
						So(seen[a.ID+"/"+v.ID], ShouldEqual, 1)
					}
				}
			}
		})

		Convey("Then the output is sorted non-decreasing and ties keep input order", func() {
			out, _ := alerts.ComputeAlerts(roster, today)
			So(sort.SliceIsSorted(out, func(i, j int) bool { return out[i].DaysRemaining < out[j].DaysRemaining }), ShouldBeTrue)
			So(out[0].DaysRemaining, ShouldEqual, -30)

			var twelve []string
			for _, a := range out {
				if a.DaysRemaining == 12 {
					twelve = append(twelve, a.Vaccination.ID)
				}
			}
			So(twelve, ShouldResemble, []string{"v0", "v6"})
		})

		Convey("Then two calls are identical and the input is untouched", func() {
			before := largeRoster()
			first, err1 := alerts.ComputeAlerts(roster, today)
			second, err2 := alerts.ComputeAlerts(roster, today)
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(reflect.DeepEqual(first, second), ShouldBeTrue)
			So(reflect.DeepEqual(roster, before), ShouldBeTrue)
		})

		Convey("Then TopUpcoming(5) is the prefix of ComputeAlerts", func() {
			all, _ := alerts.ComputeAlerts(roster, today)
			top, err := alerts.TopUpcoming(roster, today, 5)
			So(err, ShouldBeNil)
			So(top, ShouldResemble, all[:5])
		})
	})
}

func TestTopUpcoming(t *testing.T) {
	Convey("Given eight overdue doses", t, func() {
		a := alerts.Animal{ID: "a1"}
		for i, d := range []int{-3, -50, -1, -20, -8, -2, -35, -12} {
			a.Vaccinations = append(a.Vaccinations, rec(fmt.Sprintf("v%d", i), d))
		}
		roster := []alerts.Animal{a}

		Convey("Then the five most overdue are returned in ascending order", func() {
			top, err := alerts.TopUpcoming(roster, today, alerts.DefaultTopUpcoming)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 5)
			got := make([]int, 0, len(top))
			for _, x := range top {
				got = append(got, x.DaysRemaining)
			}
			So(got, ShouldResemble, []int{-50, -35, -20, -12, -8})
		})
	})

	Convey("Given fewer urgent doses than n", t, func() {
		roster := []alerts.Animal{{ID: "a1", Vaccinations: []alerts.VaccinationRecord{rec("v1", 100), rec("v2", 2), rec("v3", 60)}}}

		Convey("Then scheduled doses fill the list", func() {
			top, err := alerts.TopUpcoming(roster, today, 5)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 3)
			So(top[2].Urgency, ShouldEqual, alerts.UrgencyScheduled)
		})

		Convey("Then n <= 0 yields nothing", func() {
			top, err := alerts.TopUpcoming(roster, today, 0)
			So(err, ShouldBeNil)
			So(top, ShouldBeEmpty)
		})
	})
}

func TestTruncate(t *testing.T) {
	Convey("Given a computed alert list", t, func() {
		roster := []alerts.Animal{{ID: "a1", Vaccinations: []alerts.VaccinationRecord{rec("v1", 9), rec("v2", -4), rec("v3", 40)}}}
		all, err := alerts.ComputeAlerts(roster, today)
		So(err, ShouldBeNil)

		Convey("Then it keeps the first n in order", func() {
			So(alerts.Truncate(all, 2), ShouldResemble, all[:2])
		})

		Convey("Then n larger than the list returns it whole", func() {
			So(alerts.Truncate(all, 10), ShouldResemble, all)
		})

		Convey("Then n <= 0 returns an empty non-nil slice", func() {
			got := alerts.Truncate(all, -1)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})
	})
}
