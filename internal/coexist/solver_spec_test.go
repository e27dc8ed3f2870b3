package coexist_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coexist/internal/coexist"
	"github.com/san-kum/coexist/internal/eos"
)

var _ = Describe("Maxwell construction", func() {
	var (
		model eos.Model
		cfg   coexist.Config
	)

	BeforeEach(func() {
		model = eos.NewVanDerWaals(eos.Acetylene)
		cfg = coexist.DefaultConfig()
	})

	Context("on a sub-critical acetylene isotherm", func() {
		It("converges to a positive saturation pressure between the spinodal pressures", func() {
			res, err := coexist.Solve(model, coexist.DefaultIsotherm(eos.Acetylene, 300), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeTrue())
			Expect(res.Reason).To(BeEmpty())
			Expect(res.Pressure).To(BeNumerically("~", 39.89, 0.05))
			Expect(res.VLiquid).To(BeNumerically(">", eos.Acetylene.B))
			Expect(res.VLiquid).To(BeNumerically("<", eos.Critical(eos.Acetylene).V))
			Expect(res.VGas).To(BeNumerically(">", eos.Critical(eos.Acetylene).V))
			Expect(res.Residual).To(BeNumerically("<", cfg.Tolerance))
			Expect(res.Residual).To(BeNumerically(">", -cfg.Tolerance))
		})

		It("converges from either side of the saturation pressure", func() {
			for _, p0 := range []float64{20, 45} {
				cfg.InitialPressure = p0
				res, err := coexist.Solve(model, coexist.DefaultIsotherm(eos.Acetylene, 300), cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Converged).To(BeTrue(), "P0=%v", p0)
				Expect(res.Pressure).To(BeNumerically("~", 39.89, 0.05))
			}
		})

		It("takes more iterations with a smaller gain", func() {
			fast, err := coexist.Solve(model, coexist.DefaultIsotherm(eos.Acetylene, 300), cfg)
			Expect(err).NotTo(HaveOccurred())

			cfg.Gain = 0.2
			slow, err := coexist.Solve(model, coexist.DefaultIsotherm(eos.Acetylene, 300), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(slow.Converged).To(BeTrue())
			Expect(slow.Iterations).To(BeNumerically(">", fast.Iterations))
		})
	})

	Context("without an unstable region", func() {
		It("reports non-convergence for an ideal gas", func() {
			res, err := coexist.Solve(eos.NewIdealGas(eos.Acetylene), coexist.DefaultIsotherm(eos.Acetylene, 300), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
			Expect(res.Reason).To(Equal(coexist.ReasonSupercritical))
			Expect(res.Iterations).To(BeZero())
		})

		It("reports non-convergence above the critical temperature", func() {
			tc := eos.Critical(eos.Acetylene).T
			res, err := coexist.Solve(model, coexist.DefaultIsotherm(eos.Acetylene, tc*1.05), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Converged).To(BeFalse())
		})
	})

	Context("with invalid input", func() {
		It("rejects a volume domain reaching into the excluded volume", func() {
			iso := coexist.DefaultIsotherm(eos.Acetylene, 300)
			iso.VolumeMin = eos.Acetylene.B / 2
			_, err := coexist.Solve(model, iso, cfg)
			Expect(err).To(MatchError(coexist.ErrInvalidConfig))
		})
	})

	Describe("SolveAll", func() {
		It("matches sequential solves in input order", func() {
			temps := []float64{330, 260, 300, 290}
			isos := make([]coexist.Isotherm, len(temps))
			for i, t := range temps {
				isos[i] = coexist.DefaultIsotherm(eos.Acetylene, t)
			}

			s := coexist.New(model, nil)
			got, err := s.SolveAll(context.Background(), isos, cfg, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(len(temps)))

			for i, iso := range isos {
				want, err := s.Solve(iso, cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(got[i]).To(Equal(want))
			}
		})

		It("fails on the first invalid isotherm", func() {
			isos := []coexist.Isotherm{
				coexist.DefaultIsotherm(eos.Acetylene, 300),
				{Temperature: -1, VolumeMin: 0.1, VolumeMax: 1, Samples: 10},
			}
			_, err := coexist.New(model, nil).SolveAll(context.Background(), isos, cfg, 0)
			Expect(err).To(MatchError(coexist.ErrInvalidConfig))
		})

		It("stops on a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := coexist.New(model, nil).SolveAll(ctx, []coexist.Isotherm{coexist.DefaultIsotherm(eos.Acetylene, 300)}, cfg, 1)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
