package service

import (
	"context"
	"strings"

	"agcbo/internal/access"
	"agcbo/internal/entity/common"
	"agcbo/internal/entity/db"
	"agcbo/internal/entity/dto"
	"agcbo/internal/model"
	"agcbo/internal/model/sql"
)

var matchTypes = []string{"friendly", "league", "tournament", "training"}

// SportsService manages sport programmes, teams, fixtures and training.
type SportsService struct {
	Programs *Catalog[db.SportProgram, *db.SportProgram]
	Teams    *Catalog[db.Team, *db.Team]
	Roster   *Catalog[db.TeamMember, *db.TeamMember]
	Matches  *Catalog[db.Match, *db.Match]
	Training *Catalog[db.TrainingSchedule, *db.TrainingSchedule]

	members  model.Table[db.TeamMember]
	profiles model.Table[db.MemberProfile]
	audit    *AuditService
}

func NewSportsService(tables *model.Tables, audit *AuditService) *SportsService {
	s := &SportsService{members: tables.TeamMembers, profiles: tables.MemberProfiles, audit: audit}
	teamExists := func(ctx context.Context, v *ValidationError, id uint) {
		if id == 0 {
			v.Add("team_id", "this field is required")
		} else if _, err := tables.Teams.Get(ctx, id, true); err != nil {
			v.Add("team_id", "unknown team")
		}
	}

	s.Programs = NewCatalog[db.SportProgram, *db.SportProgram](tables.SportPrograms, audit, CatalogOptions[db.SportProgram]{
		Name: "sport_program",
		Prepare: func(_ context.Context, p *db.SportProgram, _ bool) error {
			v := NewValidationError()
			required(v, "name", p.Name)
			required(v, "sport_type", p.SportType)
			return v.Err()
		},
	})
	s.Teams = NewCatalog[db.Team, *db.Team](tables.Teams, audit, CatalogOptions[db.Team]{
		Name:   "team",
		Redact: func(t *db.Team) { t.SportProgram = activeProgram(t.SportProgram) },
		Prepare: func(ctx context.Context, t *db.Team, _ bool) error {
			v := NewValidationError()
			required(v, "name", t.Name)
			if t.SportProgramID == 0 {
				v.Add("sport_program_id", "this field is required")
			} else if _, err := tables.SportPrograms.Get(ctx, t.SportProgramID, true); err != nil {
				v.Add("sport_program_id", "unknown sport program")
			}
			return v.Err()
		},
	})
	s.Roster = NewCatalog[db.TeamMember, *db.TeamMember](tables.TeamMembers, audit, CatalogOptions[db.TeamMember]{
		Name: "team_member",
		Prepare: func(ctx context.Context, m *db.TeamMember, _ bool) error {
			v := NewValidationError()
			teamExists(ctx, v, m.TeamID)
			validateRosterEntry(v, m)
			return v.Err()
		},
	})
	s.Matches = NewCatalog[db.Match, *db.Match](tables.Matches, audit, CatalogOptions[db.Match]{
		Name:   "match",
		Redact: func(m *db.Match) { m.Team = activeTeam(m.Team) },
		Prepare: func(ctx context.Context, m *db.Match, _ bool) error {
			v := NewValidationError()
			teamExists(ctx, v, m.TeamID)
			required(v, "opponent", m.Opponent)
			if m.MatchDate.IsZero() {
				v.Add("match_date", "this field is required")
			}
			if m.MatchType == "" {
				m.MatchType = "friendly"
			}
			if !oneOf(m.MatchType, matchTypes) {
				v.Add("match_type", "invalid match type")
			}
			if m.Result == "" || m.Result == db.ResultPending {
				m.Result = MatchResult(m.OurScore, m.OpponentScore)
			}
			if !oneOf(m.Result, []string{db.ResultWin, db.ResultLoss, db.ResultDraw, db.ResultPending}) {
				v.Add("result", "invalid result")
			}
			return v.Err()
		},
	})
	s.Training = NewCatalog[db.TrainingSchedule, *db.TrainingSchedule](tables.Training, audit, CatalogOptions[db.TrainingSchedule]{
		Name:   "training_schedule",
		Redact: func(t *db.TrainingSchedule) { t.Team = activeTeam(t.Team) },
		Prepare: func(ctx context.Context, t *db.TrainingSchedule, _ bool) error {
			v := NewValidationError()
			teamExists(ctx, v, t.TeamID)
			required(v, "title", t.Title)
			if t.StartTime.IsZero() {
				v.Add("start_time", "this field is required")
			}
			if !t.EndTime.IsZero() && t.EndTime.Before(t.StartTime) {
				v.Add("end_time", "must not be before the start time")
			}
			if !t.IsRecurring {
				t.RecurrencePattern = ""
			}
			return v.Err()
		},
	})
	return s
}

func validateRosterEntry(v *ValidationError, m *db.TeamMember) {
	if m.MemberID == 0 {
		v.Add("member_id", "this field is required")
	}
	if m.Position == "" {
		m.Position = db.PositionPlayer
	}
	if !oneOf(m.Position, db.TeamPositions) {
		v.Add("position", "invalid position")
	}
	if m.JerseyNumber != nil && (*m.JerseyNumber < 0 || *m.JerseyNumber > 99) {
		v.Add("jersey_number", "must be between 0 and 99")
	}
}

// MatchResult derives a result from the two scores; pending until both
// are known.
func MatchResult(ours, theirs *int) string {
	if ours == nil || theirs == nil {
		return db.ResultPending
	}
	switch {
	case *ours > *theirs:
		return db.ResultWin
	case *ours < *theirs:
		return db.ResultLoss
	default:
		return db.ResultDraw
	}
}

// AddTeamMember puts a member profile on a team roster. Staff only.
func (s *SportsService) AddTeamMember(ctx context.Context, viewer access.Viewer, teamID uint, req dto.AddTeamMemberRequest) (*db.TeamMember, error) {
	if !viewer.IsStaff() {
		return nil, ErrForbidden
	}
	team, err := s.Teams.Get(ctx, viewer, teamID)
	if err != nil {
		return nil, err
	}
	member := &db.TeamMember{
		TeamID:       team.ID,
		MemberID:     req.MemberID,
		Position:     strings.TrimSpace(req.Position),
		JerseyNumber: req.JerseyNumber,
		IsActive:     true,
	}
	v := NewValidationError()
	validateRosterEntry(v, member)
	if member.MemberID != 0 {
		if _, err := s.profiles.Get(ctx, member.MemberID, true); err != nil {
			v.Add("member_id", "unknown member")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.members.Create(ctx, member); err != nil {
		if sql.IsDuplicateKey(err) {
			return nil, NewRuleError(RuleDuplicate, "Member is already on this team")
		}
		return nil, storageError(err)
	}
	s.audit.Record(ctx, viewer, db.AuditCreate, "team_member", member, map[string]interface{}{
		"team_id":   team.ID,
		"member_id": member.MemberID,
		"position":  member.Position,
	})
	return member, nil
}

// TeamMembers lists the active roster of a team the viewer can see.
func (s *SportsService) TeamMembers(ctx context.Context, viewer access.Viewer, teamID uint) ([]db.TeamMember, error) {
	team, err := s.Teams.Get(ctx, viewer, teamID)
	if err != nil {
		return nil, err
	}
	items, _, err := s.members.List(ctx, common.ListQuery{
		BaseParams: common.BaseParams{PageSize: common.MaxPageSize},
		Where:      map[string]interface{}{"team_id": team.ID, "is_active": true},
		Staff:      true,
	})
	if err != nil {
		return nil, storageError(err)
	}
	return items, nil
}

func activeProgram(p *db.SportProgram) *db.SportProgram {
	if p == nil || !p.IsActive {
		return nil
	}
	return p
}

func activeTeam(t *db.Team) *db.Team {
	if t == nil || !t.IsActive {
		return nil
	}
	return t
}
