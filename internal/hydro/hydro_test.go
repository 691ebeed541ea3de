package hydro_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/shipsim/internal/hydro"
	"github.com/san-kum/shipsim/internal/ship"
)

func coaster() *ship.State {
	s, err := ship.NewState(ship.Hull{
		Length: 100, Beam: 20, Draft: 8,
		BaselineDisplacement: 12000,
		Cb:                   0.7, Cwp: 0.85, Cp: 0.6, FormFactor: 1.05,
	}, nil)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Metacenter", func() {
	It("computes GM in the expected range for a merchant-like form", func() {
		c, err := hydro.Metacenter(coaster())
		Expect(err).NotTo(HaveOccurred())
		Expect(c.GM).To(BeNumerically(">", 0.5))
		Expect(c.GM).To(BeNumerically("<", 3.0))
		Expect(c.KB).To(BeNumerically(">", 0))
		Expect(c.KB).To(BeNumerically("<", c.KG))
	})

	It("yields plausible natural periods", func() {
		c, err := hydro.Metacenter(coaster())
		Expect(err).NotTo(HaveOccurred())
		Expect(c.RollPeriod).To(BeNumerically(">", 5))
		Expect(c.RollPeriod).To(BeNumerically("<", 40))
		Expect(c.HeavePeriod).To(BeNumerically(">", 2))
		Expect(c.PitchPeriod).To(BeNumerically(">", 2))
	})

	It("strictly decreases GM when mass is added above KG", func() {
		s := coaster()
		before, err := hydro.Metacenter(s)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.AddCargo("deck cargo", 500, 50, before.KG+3)
		Expect(err).NotTo(HaveOccurred())

		after, err := hydro.Metacenter(s)
		Expect(err).NotTo(HaveOccurred())
		Expect(after.GM).To(BeNumerically("<", before.GM))
	})

	It("restores GM when added cargo is removed again", func() {
		s := coaster()
		before, err := hydro.Metacenter(s)
		Expect(err).NotTo(HaveOccurred())

		id, err := s.AddCargo("temp", 500, 40, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.RemoveCargo(id)).To(Succeed())

		after, err := hydro.Metacenter(s)
		Expect(err).NotTo(HaveOccurred())
		Expect(after.GM).To(BeNumerically("~", before.GM, 1e-12))
	})

	It("rejects an implausibly high centre of gravity", func() {
		// A full ballast tank far above the deck drags KG past the depth
		// bound; the engine must refuse rather than emit a negative GM.
		s, err := ship.NewState(ship.Hull{
			Length: 100, Beam: 20, Draft: 8,
			BaselineDisplacement: 1000,
			Cb:                   0.7, Cwp: 0.85,
		}, []ship.BallastTank{{ID: "hi", Capacity: 8000, Fill: 1, LongPos: 50, VertPos: 60}})
		Expect(err).NotTo(HaveOccurred())

		_, err = hydro.Metacenter(s)
		Expect(err).To(MatchError(ship.ErrInvalidHullGeometry))
	})
})

var _ = Describe("GZ curve", func() {
	It("is zero upright and positive at 10 degrees", func() {
		curve, err := hydro.ComputeCurve(coaster())
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.Points[0].GZ).To(BeZero())
		Expect(curve.At(10)).To(BeNumerically(">", 0))
	})

	It("is continuous across the heel domain", func() {
		curve, err := hydro.ComputeCurve(coaster())
		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < len(curve.Points); i++ {
			jump := math.Abs(curve.Points[i].GZ - curve.Points[i-1].GZ)
			Expect(jump).To(BeNumerically("<", 0.1),
				"discontinuity at %.0f deg", curve.Points[i].AngleDeg)
		}
	})

	It("zeroes the arm beyond the angle of vanishing stability", func() {
		curve, err := hydro.ComputeCurve(coaster())
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.VanishingAngle).To(BeNumerically(">", 30))
		Expect(curve.VanishingAngle).To(BeNumerically("<=", 90))
		for _, p := range curve.Points {
			if p.AngleDeg > curve.VanishingAngle {
				Expect(p.GZ).To(BeZero())
			}
		}
	})

	It("peaks near deck-edge immersion", func() {
		curve, err := hydro.ComputeCurve(coaster())
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.MaxGZ).To(BeNumerically(">", 0))
		Expect(curve.MaxGZAngleDeg).To(BeNumerically(">", 10))
		Expect(curve.MaxGZAngleDeg).To(BeNumerically("<", 45))
	})
})

var _ = Describe("Engine cache", func() {
	It("returns the memoized curve while the version is unchanged", func() {
		s := coaster()
		e := hydro.NewEngine()

		c1, err := e.Curve(s)
		Expect(err).NotTo(HaveOccurred())
		c2, err := e.Curve(s)
		Expect(err).NotTo(HaveOccurred())
		Expect(c1).To(BeIdenticalTo(c2))
	})

	It("recomputes after a mutation", func() {
		s := coaster()
		e := hydro.NewEngine()

		c1, err := e.Curve(s)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.AddCargo("crate", 200, 50, 9)
		Expect(err).NotTo(HaveOccurred())

		c2, err := e.Curve(s)
		Expect(err).NotTo(HaveOccurred())
		Expect(c2).NotTo(BeIdenticalTo(c1))
		Expect(c2.Version).To(Equal(s.Version()))
		Expect(c2.GM).To(BeNumerically("<", c1.GM))
	})
})

var _ = Describe("Estimates", func() {
	It("scales wind heeling moment with the square of wind speed", func() {
		s := coaster()
		m10 := hydro.WindHeelingMoment(s, 10, 500, 90)
		m20 := hydro.WindHeelingMoment(s, 20, 500, 90)
		Expect(m20).To(BeNumerically("~", 4*m10, 1e-9))
	})

	It("computes positive resistance and power under way", func() {
		r, p := hydro.Resistance(coaster(), 7.5)
		Expect(r).To(BeNumerically(">", 0))
		Expect(p).To(BeNumerically("~", r*7.5, 1e-9))
	})

	It("reports zero resistance at rest", func() {
		r, p := hydro.Resistance(coaster(), 0)
		Expect(r).To(BeZero())
		Expect(p).To(BeZero())
	})
})
