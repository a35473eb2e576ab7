package service

import (
	"context"
	"strings"

	"agcbo/internal/entity/db"
	"agcbo/internal/model"
)

var reportTypes = []string{
	db.ReportMemberParticipation, db.ReportProjectProgress, db.ReportFundingAllocation,
	db.ReportFinancial, db.ReportAnnual, db.ReportQuarterly, db.ReportMonthly, db.ReportOther,
}

// SiteService holds the public content collections: officials, youth jobs
// and published reports.
type SiteService struct {
	Officials *Catalog[db.Official, *db.Official]
	YouthJobs *Catalog[db.YouthJob, *db.YouthJob]
	Reports   *Catalog[db.Report, *db.Report]
}

func NewSiteService(tables *model.Tables, audit *AuditService) *SiteService {
	return &SiteService{
		Officials: NewCatalog[db.Official, *db.Official](tables.Officials, audit, CatalogOptions[db.Official]{
			Name: "official",
			Prepare: func(_ context.Context, o *db.Official, _ bool) error {
				v := NewValidationError()
				required(v, "name", o.Name)
				required(v, "position", o.Position)
				validEmail(v, "email", o.Email)
				return v.Err()
			},
		}),
		YouthJobs: NewCatalog[db.YouthJob, *db.YouthJob](tables.YouthJobs, audit, CatalogOptions[db.YouthJob]{
			Name: "youth_job",
			Prepare: func(_ context.Context, j *db.YouthJob, _ bool) error {
				v := NewValidationError()
				required(v, "title", j.Title)
				validEmail(v, "application_email", j.ApplicationEmail)
				if u := strings.TrimSpace(j.ApplicationURL); u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
					v.Add("application_url", "enter a full http(s) URL")
				}
				return v.Err()
			},
		}),
		Reports: NewCatalog[db.Report, *db.Report](tables.Reports, audit, CatalogOptions[db.Report]{
			Name: "report",
			Prepare: func(_ context.Context, r *db.Report, _ bool) error {
				v := NewValidationError()
				required(v, "title", r.Title)
				if r.ReportType == "" {
					r.ReportType = db.ReportOther
				}
				if !oneOf(r.ReportType, reportTypes) {
					v.Add("report_type", "invalid report type")
				}
				if r.PeriodStart != nil && r.PeriodEnd != nil && r.PeriodEnd.Before(*r.PeriodStart) {
					v.Add("period_end", "must not be before the period start")
				}
				return v.Err()
			},
		}),
	}
}
