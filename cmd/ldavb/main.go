// Command ldavb streams a document file through an online variational
// Bayes LDA learner, the same flag-driven single-binary shape as the
// teacher's main.go.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/bobonovski/ldavb/config"
	"github.com/bobonovski/ldavb/ldamodel"
	"github.com/bobonovski/ldavb/streamfeat"
)

var (
	configPath = flag.String("config", "", "path to a JSON experiment config")
	input      = flag.String("input_file", "", "input training file (overrides config.input)")
	topicNum   = flag.Uint("k", 20, "number of topics (used when -config is not given)")
	modelOut   = flag.String("model_out", "", "path to write the trained weight table (binary)")
	auditOut   = flag.String("audit_out", "", "path to write per-document audit trace")
)

func main() {
	flag.Parse()

	cfg, err := loadExperimentConfig()
	if err != nil {
		glog.Exitf("ldavb: %v", err)
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		glog.Exitf("ldavb: failed to open input: %v", err)
	}
	defer f.Close()

	learnerCfg, err := cfg.LearnerConfig()
	if err != nil {
		glog.Exitf("ldavb: %v", err)
	}

	learner, err := ldamodel.NewLearner(learnerCfg)
	if err != nil {
		glog.Exitf("ldavb: %v", err)
	}

	if cfg.AuditOut != "" {
		af, err := os.Create(cfg.AuditOut)
		if err != nil {
			glog.Exitf("ldavb: failed to create audit file: %v", err)
		}
		defer af.Close()
		learner.SetAuditWriter(af)
	}

	src := streamfeat.NewSource(f, func(line string, err error) {
		glog.Warningf("ldavb: skipping bad line: %v", err)
	})

	var n int
	for {
		doc, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			glog.Exitf("ldavb: %v", err)
		}
		learner.Accept(doc)
		n++
		if cfg.DumpEvery > 0 && uint32(n)%cfg.DumpEvery == 0 {
			glog.Infof("ldavb: processed %d documents, loss since last dump %.4f", n, learner.SumLossSinceLastDump)
			learner.ResetSinceLastDump()
		}
	}
	learner.EndPass()
	learner.EndExamples()

	glog.Infof("ldavb: done, %d documents, total loss %.4f", n, learner.SumLoss)

	if cfg.ModelOut != "" {
		if err := learner.Table().SaveBinaryFile(cfg.ModelOut, learnerCfg.Rho); err != nil {
			glog.Exitf("ldavb: failed to save model: %v", err)
		}
	}
}

func loadExperimentConfig() (*config.ExperimentConfig, error) {
	if *configPath != "" {
		cfg, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		if *input != "" {
			cfg.Input = *input
		}
		if *modelOut != "" {
			cfg.ModelOut = *modelOut
		}
		if *auditOut != "" {
			cfg.AuditOut = *auditOut
		}
		return cfg, nil
	}

	cfg := config.DefaultExperimentConfig(uint32(*topicNum))
	cfg.Input = *input
	cfg.ModelOut = *modelOut
	cfg.AuditOut = *auditOut
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
