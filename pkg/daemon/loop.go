package daemon

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/restpot/restpot/pkg/events"
	"github.com/restpot/restpot/pkg/potential"
)

// recomputeProfile computes the profile's resting potential, logs it and
// publishes it to /events subscribers.
func recomputeProfile() error {
	consts := conf.Constants()
	in := conf.GHKInput()

	ions := 3
	if in.Ca != nil {
		ions = 4
	}
	ev := events.PotentialEvent{
		Ions:    ions,
		Calcium: string(in.Calcium),
		Ts:      time.Now().Unix(),
	}

	r, err := potential.Compute(consts, in)
	if err != nil {
		ev.Error = err.Error()
		sseHub.Publish(events.PotentialRecomputed, ev)
		return err
	}
	ev.Value = r.Value
	sseHub.Publish(events.PotentialRecomputed, ev)

	logrus.WithFields(logrus.Fields{
		"ions":    ions,
		"calcium": in.Calcium,
		"T":       consts.T,
	}).Infof("profile membrane potential: %s", r)

	return nil
}
