package evaluate

import (
	"math"
	"testing"

	"github.com/rushteam/matchkit/core"
)

func exposure(reqID, userID, jobID string, pos int, prob float64, version string) *core.Exposure {
	return &core.Exposure{
		RequestID:                  reqID,
		UserID:                     userID,
		JobID:                      jobID,
		Position:                   pos,
		PredictedActionProbability: prob,
		ScoringVersion:             version,
	}
}

func positive(userID, jobID string) *core.Feedback {
	return &core.Feedback{UserID: userID, JobID: jobID, Action: "apply", Positive: true}
}

func TestAUC_PerfectSeparation(t *testing.T) {
	exposures := []*core.Exposure{
		exposure("r1", "u1", "j1", 0, 0.9, "v2"),
		exposure("r1", "u1", "j2", 1, 0.8, "v2"),
		exposure("r1", "u1", "j3", 2, 0.2, "v2"),
		exposure("r1", "u1", "j4", 3, 0.1, "v2"),
	}
	feedback := []*core.Feedback{positive("u1", "j1"), positive("u1", "j2")}

	overall, _ := Evaluate(exposures, feedback, 4)
	if !overall.AUC.Valid {
		t.Fatal("AUC should be defined")
	}
	if math.Abs(overall.AUC.Value-1.0) > 1e-9 {
		t.Errorf("AUC = %v, want 1.0", overall.AUC.Value)
	}
}

func TestAUC_UndefinedWithoutBothClasses(t *testing.T) {
	exposures := []*core.Exposure{
		exposure("r1", "u1", "j1", 0, 0.9, "v2"),
		exposure("r1", "u1", "j2", 1, 0.8, "v2"),
	}

	// 全负类
	overall, _ := Evaluate(exposures, nil, 2)
	if overall.AUC.Valid {
		t.Error("AUC must be undefined with no positives")
	}

	// 全正类
	overall, _ = Evaluate(exposures, []*core.Feedback{positive("u1", "j1"), positive("u1", "j2")}, 2)
	if overall.AUC.Valid {
		t.Error("AUC must be undefined with no negatives")
	}
}

func TestAUC_TiedScores(t *testing.T) {
	// 正负各一个同分样本：平均秩给出 AUC 0.5
	exposures := []*core.Exposure{
		exposure("r1", "u1", "j1", 0, 0.5, "v2"),
		exposure("r1", "u1", "j2", 1, 0.5, "v2"),
	}
	overall, _ := Evaluate(exposures, []*core.Feedback{positive("u1", "j1")}, 2)
	if !overall.AUC.Valid || math.Abs(overall.AUC.Value-0.5) > 1e-9 {
		t.Errorf("AUC = %+v, want 0.5", overall.AUC)
	}
}

func TestLogLoss(t *testing.T) {
	exposures := []*core.Exposure{
		exposure("r1", "u1", "j1", 0, 0.8, "v2"),
		exposure("r1", "u1", "j2", 1, 0.3, "v2"),
	}
	overall, _ := Evaluate(exposures, []*core.Feedback{positive("u1", "j1")}, 2)

	want := (-math.Log(0.8) - math.Log(0.7)) / 2
	if !overall.LogLoss.Valid || math.Abs(overall.LogLoss.Value-want) > 1e-9 {
		t.Errorf("LogLoss = %+v, want %v", overall.LogLoss, want)
	}
}

func TestLogLoss_ExtremeProbabilitiesAreClamped(t *testing.T) {
	exposures := []*core.Exposure{
		exposure("r1", "u1", "j1", 0, 1.0, "v2"), // 预测 1.0 但实际未投递
	}
	overall, _ := Evaluate(exposures, nil, 1)
	if !overall.LogLoss.Valid {
		t.Fatal("LogLoss should be defined")
	}
	if math.IsInf(overall.LogLoss.Value, 0) || math.IsNaN(overall.LogLoss.Value) {
		t.Errorf("LogLoss = %v, want finite", overall.LogLoss.Value)
	}
}

func TestPrecisionAtK(t *testing.T) {
	exposures := []*core.Exposure{
		exposure("r1", "u1", "j1", 0, 0.9, "v2"),
		exposure("r1", "u1", "j2", 1, 0.8, "v2"),
		exposure("r1", "u1", "j3", 2, 0.7, "v2"),
		exposure("r1", "u1", "j4", 3, 0.6, "v2"),
		exposure("r1", "u1", "j5", 4, 0.5, "v2"),
	}
	feedback := []*core.Feedback{positive("u1", "j1"), positive("u1", "j3")}

	overall, _ := Evaluate(exposures, feedback, 5)
	if !overall.PrecisionAtK.Valid || math.Abs(overall.PrecisionAtK.Value-0.4) > 1e-9 {
		t.Errorf("PrecisionAtK = %+v, want 0.4", overall.PrecisionAtK)
	}
}

func TestPrecisionAtK_Undefined(t *testing.T) {
	exposures := []*core.Exposure{exposure("r1", "u1", "j1", 0, 0.9, "v2")}

	overall, _ := Evaluate(exposures, nil, 0)
	if overall.PrecisionAtK.Valid {
		t.Error("k=0 must be undefined")
	}

	overall, _ = Evaluate(nil, nil, 5)
	if overall.PrecisionAtK.Valid {
		t.Error("no requests must be undefined")
	}
}

func TestEvaluate_SlicesByScoringVersion(t *testing.T) {
	exposures := []*core.Exposure{
		// v1：排序正好反了
		exposure("r1", "u1", "j1", 0, 0.1, "v1"),
		exposure("r1", "u1", "j2", 1, 0.9, "v1"),
		// v2：排序完美
		exposure("r2", "u2", "j3", 0, 0.9, "v2"),
		exposure("r2", "u2", "j4", 1, 0.1, "v2"),
	}
	feedback := []*core.Feedback{positive("u1", "j1"), positive("u2", "j3")}

	_, byVersion := Evaluate(exposures, feedback, 1)
	if len(byVersion) != 2 {
		t.Fatalf("got %d slices, want 2", len(byVersion))
	}
	if v1 := byVersion["v1"]; !v1.AUC.Valid || v1.AUC.Value != 0.0 {
		t.Errorf("v1 AUC = %+v, want 0.0", v1.AUC)
	}
	if v2 := byVersion["v2"]; !v2.AUC.Valid || v2.AUC.Value != 1.0 {
		t.Errorf("v2 AUC = %+v, want 1.0", v2.AUC)
	}
}
