package appointment

import (
	"sort"
	"time"

	"github.com/cliniqon/clinic-scheduler/internal/httperr"
)

// GenerateSlots partitions each session of the requested weekday into
// consecutive duration-sized slots. A trailing remainder shorter than
// the duration is discarded. Slots overlapping an existing booking, or
// starting at or before now, are flagged unavailable.
func GenerateSlots(in SlotInput) (*DaySlots, error) {
	if in.DurationMin <= 0 {
		return nil, httperr.ErrValidation("service_duration_required")
	}

	weekday := int(in.Date.Weekday())
	loc := in.Date.Location()
	duration := time.Duration(in.DurationMin) * time.Minute

	parseHM := func(hm string) (time.Time, bool) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(
			in.Date.Year(), in.Date.Month(), in.Date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), true
	}

	sessions := make([]sessionWindow, 0, len(in.Sessions))
	for _, s := range in.Sessions {
		if s.Weekday != weekday {
			continue
		}
		start, ok1 := parseHM(s.StartTime)
		end, ok2 := parseHM(s.EndTime)
		if !ok1 || !ok2 || !end.After(start) {
			continue
		}
		sessions = append(sessions, sessionWindow{id: s.ID, start: start, end: end})
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].start.Before(sessions[j].start)
	})

	out := &DaySlots{
		Date:         in.Date,
		Weekday:      in.Date.Weekday().String(),
		SessionCount: len(sessions),
		BookedCount:  len(in.Bookings),
		DurationMin:  in.DurationMin,
		Sessions:     make([]SessionSlots, 0, len(sessions)),
	}

	for _, sess := range sessions {
		group := SessionSlots{
			SessionID: sess.id,
			StartHM:   sess.start.Format("15:04"),
			EndHM:     sess.end.Format("15:04"),
		}

		for cur := sess.start; !cur.Add(duration).After(sess.end); cur = cur.Add(duration) {
			slotStart := cur
			slotEnd := cur.Add(duration)

			available := slotStart.After(in.Now)
			for _, b := range in.Bookings {
				if b.Overlaps(slotStart, slotEnd) {
					available = false
					break
				}
			}

			if in.OnlyFuture && !slotStart.After(in.Now) {
				continue
			}

			group.Slots = append(group.Slots, Slot{
				Start:     slotStart,
				End:       slotEnd,
				StartHM:   slotStart.Format("15:04"),
				EndHM:     slotEnd.Format("15:04"),
				Available: available,
			})
		}

		out.Sessions = append(out.Sessions, group)
	}

	return out, nil
}

type sessionWindow struct {
	id    uint
	start time.Time
	end   time.Time
}
