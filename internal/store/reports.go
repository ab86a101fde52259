package store

import (
	"context"
	"sort"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/types"
	"github.com/pkg/errors"
)

// Report holds the admin dashboard statistics.
type Report struct {
	Users        int64            `json:"users"`
	ActiveUsers  int64            `json:"activeUsers"`
	Jobs         int64            `json:"jobs"`
	OpenJobs     int64            `json:"openJobs"`
	Applications int64            `json:"applications"`
	Companies    int64            `json:"companies"`
	UsersByRole  map[string]int64 `json:"usersByRole"`
	UsersStatus  map[string]int64 `json:"usersByStatus"`
	JobsByStatus map[string]int64 `json:"jobsByStatus"`
	JobsByType   map[string]int64 `json:"jobsByType"`
	AppsByStatus map[string]int64 `json:"applicationsByStatus"`
}

type groupCount struct {
	Key   string
	Count int64
}

func (s *Store) Report(ctx context.Context) (*Report, error) {
	wrapMsg := "unable to build report"
	db := s.db.WithContext(ctx)

	report := &Report{}

	counts := []struct {
		model interface{}
		where map[string]interface{}
		dest  *int64
	}{
		{&models.User{}, nil, &report.Users},
		{&models.User{}, map[string]interface{}{"status": types.UserStatusActive}, &report.ActiveUsers},
		{&models.Job{}, nil, &report.Jobs},
		{&models.Job{}, map[string]interface{}{"status": types.JobStatusOpen}, &report.OpenJobs},
		{&models.Application{}, nil, &report.Applications},
		{&models.Company{}, nil, &report.Companies},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
	}

	groups := []struct {
		model  interface{}
		column string
		dest   *map[string]int64
	}{
		{&models.User{}, "role", &report.UsersByRole},
		{&models.User{}, "status", &report.UsersStatus},
		{&models.Job{}, "status", &report.JobsByStatus},
		{&models.Job{}, "type", &report.JobsByType},
		{&models.Application{}, "status", &report.AppsByStatus},
	}
	for _, g := range groups {
		var rows []groupCount
		err := db.Model(g.model).
			Select(g.column + " AS key, count(*) AS count").
			Group(g.column).
			Scan(&rows).Error
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}

		m := make(map[string]int64, len(rows))
		for _, r := range rows {
			m[r.Key] = r.Count
		}
		*g.dest = m
	}

	return report, nil
}

// Activity is one entry of the admin activity feed.
type Activity struct {
	ID      uint      `json:"id"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// RecentActivity merges the newest users, jobs and applications, newest first.
func (s *Store) RecentActivity(ctx context.Context, perKind, total int) ([]Activity, error) {
	wrapMsg := "unable to load recent activity"
	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.Select("id", "name", "role", "created_at").Order("created_at DESC").Limit(perKind).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	var jobs []models.Job
	if err := db.Preload("Company").Order("created_at DESC").Limit(perKind).Find(&jobs).Error; err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	var apps []models.Application
	if err := db.Preload("Job").Order("created_at DESC").Limit(perKind).Find(&apps).Error; err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	activity := make([]Activity, 0, len(users)+len(jobs)+len(apps))
	for _, u := range users {
		activity = append(activity, Activity{u.ID, types.EntityUser, "New " + u.Role + " joined: " + u.Name, u.CreatedAt})
	}
	for _, j := range jobs {
		company := "Unknown"
		if j.Company != nil {
			company = j.Company.Name
		}
		activity = append(activity, Activity{j.ID, types.EntityJob, "New job posted: " + j.Title + " at " + company, j.CreatedAt})
	}
	for _, a := range apps {
		title := "Job"
		if a.Job != nil {
			title = a.Job.Title
		}
		activity = append(activity, Activity{a.ID, types.EntityApplication, "New application for: " + title, a.CreatedAt})
	}

	sort.SliceStable(activity, func(i, j int) bool { return activity[i].Time.After(activity[j].Time) })
	if len(activity) > total {
		activity = activity[:total]
	}

	return activity, nil
}

// GrowthPoint is the number of users who joined in one month.
type GrowthPoint struct {
	Month string `json:"name"`
	Users int64  `json:"users"`
}

// UserGrowth counts signups per calendar month since since, oldest first.
func (s *Store) UserGrowth(ctx context.Context, since time.Time) ([]GrowthPoint, error) {
	var rows []struct {
		Month time.Time
		Count int64
	}

	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("date_trunc('month', created_at) AS month, count(*) AS count").
		Where("created_at >= ?", since).
		Group("month").
		Order("month").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to load user growth")
	}

	points := make([]GrowthPoint, len(rows))
	for i, r := range rows {
		points[i] = GrowthPoint{Month: r.Month.Format("Jan"), Users: r.Count}
	}
	return points, nil
}
