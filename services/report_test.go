package services

import (
	"context"
	"errors"
	"testing"

	"civic-engagement-system/models"

	"github.com/stretchr/testify/require"
)

func validCityReport() CityReportInput {
	return CityReportInput{
		Category:    "roads",
		Title:       "Buca in via Dante",
		Description: "Buca profonda vicino al civico 12",
		Address:     "Via Dante 12",
	}
}

func TestSubmitCityReport_AwardsXP(t *testing.T) {
	db := newTestDB(t)
	xp := NewXPService(db)
	svc := NewReportService(db, xp)
	ctx := context.Background()

	report, award, err := svc.SubmitCityReport(ctx, "user1", validCityReport())
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusPending, report.Status)
	require.Equal(t, models.UrgencyMedium, report.Urgency, "urgency defaults to medium")
	require.EqualValues(t, 50, award.XPEarned)

	var prog models.UserProgress
	require.NoError(t, db.Where("user_id = ?", "user1").First(&prog).Error)
	require.EqualValues(t, 50, prog.TotalXP)
	require.EqualValues(t, 1, prog.TotalReports)
}

func TestSubmitCityReport_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, NewXPService(db))
	ctx := context.Background()

	cases := []func(*CityReportInput){
		func(in *CityReportInput) { in.Category = "teleport_pads" },
		func(in *CityReportInput) { in.Title = "" },
		func(in *CityReportInput) { in.Description = "" },
		func(in *CityReportInput) { in.Address = "" },
		func(in *CityReportInput) { in.Urgency = "critical" },
	}

	for i, mutate := range cases {
		in := validCityReport()
		mutate(&in)
		_, _, err := svc.SubmitCityReport(ctx, "user1", in)
		require.ErrorIs(t, err, ErrValidation, "case %d", i)
	}

	// Nothing was persisted for the rejected submissions.
	var count int64
	db.Model(&models.CityReport{}).Count(&count)
	require.Zero(t, count)
}

func TestSubmitCityReport_AuthRequired(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, NewXPService(db))

	_, _, err := svc.SubmitCityReport(context.Background(), "", validCityReport())
	require.ErrorIs(t, err, ErrAuthRequired)
}

// An award failure degrades to log-only: the report is kept, XP is zero.
func TestSubmitCityReport_AwardFailureKeepsReport(t *testing.T) {
	db := newTestDB(t)
	gateway := &stubGateway{err: errors.New("award backend down")}
	svc := NewReportService(db, gateway)

	report, award, err := svc.SubmitCityReport(context.Background(), "user1", validCityReport())
	require.NoError(t, err)
	require.NotNil(t, report)
	require.Zero(t, award.XPEarned)

	var count int64
	db.Model(&models.CityReport{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestSubmitWasteReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, NewXPService(db))
	ctx := context.Background()

	report, award, err := svc.SubmitWasteReport(ctx, "user1", WasteReportInput{
		WasteType:   "bulky",
		Description: "Divano abbandonato",
		Address:     "Via Duca degli Abruzzi 5",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusPending, report.Status)
	require.EqualValues(t, 50, award.XPEarned)

	_, _, err = svc.SubmitWasteReport(ctx, "user1", WasteReportInput{
		WasteType: "plutonium", Description: "x", Address: "x",
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestSetReportStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, NewXPService(db))

	report, _, err := svc.SubmitCityReport(context.Background(), "user1", validCityReport())
	require.NoError(t, err)

	updated, err := svc.SetReportStatus(report.ID, models.ReportStatusInProgress)
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusInProgress, updated.Status)

	_, err = svc.SetReportStatus(report.ID, "vanished")
	require.ErrorIs(t, err, ErrValidation)
}

func TestListReports_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db, NewXPService(db))
	ctx := context.Background()

	first, _, err := svc.SubmitCityReport(ctx, "user1", validCityReport())
	require.NoError(t, err)
	_, _, err = svc.SubmitCityReport(ctx, "user2", validCityReport())
	require.NoError(t, err)

	_, err = svc.SetReportStatus(first.ID, models.ReportStatusResolved)
	require.NoError(t, err)

	pending, err := svc.ListReports(models.ReportStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	all, err := svc.ListReports("")
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.ListUserReports("user1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
