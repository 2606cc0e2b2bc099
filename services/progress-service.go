package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"doctrack/backend/progress-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	unknownClientID   = "unknown"
	unknownClientName = "Unknown"
)

// ProgressService is the read-side aggregation engine. It joins tasks,
// work logs, projects and the member roster into the workspace and
// per-employee rollups. It never writes anything back.
type ProgressService struct {
	tasks    TaskStore
	workLogs WorkLogStore
	projects ProjectStore
	members  MemberDirectory
	now      func() time.Time
}

func NewProgressService(tasks TaskStore, workLogs WorkLogStore, projects ProjectStore, members MemberDirectory) *ProgressService {
	return &ProgressService{
		tasks:    tasks,
		workLogs: workLogs,
		projects: projects,
		members:  members,
		now:      time.Now,
	}
}

// WorkspaceProgressSummary computes the full workspace rollup for the
// resolved window. The four source reads are independent, so they are
// fanned out and merged once all complete.
func (s *ProgressService) WorkspaceProgressSummary(ctx context.Context, workspace primitive.ObjectID, from, to string) (*models.ProgressSummary, error) {
	now := s.now()
	window := resolveDateRangeAt(from, to, now)

	var (
		projects []models.Project
		tasks    []models.Task
		logRows  []models.WorkLogRow
		roster   []models.Member
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = s.projects.FindByWorkspace(gctx, workspace)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.Find(gctx, models.TaskFilter{Workspace: workspace})
		return err
	})
	g.Go(func() (err error) {
		logRows, err = s.workLogs.FindInWindow(gctx, workspace, nil, window)
		return err
	})
	g.Go(func() (err error) {
		roster, err = s.members.ListMembers(gctx, workspace)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather progress data: %v", err)
	}

	return &models.ProgressSummary{
		DateRange:     window,
		ProjectStats:  buildProjectStats(projects, tasks),
		ClientStats:   buildClientStats(projects),
		TaskStats:     buildTaskStats(tasks, now),
		EmployeeStats: buildEmployeeStats(roster, tasks, logRows),
	}, nil
}

// EmployeeProgress computes one member's numbers for the window, plus the
// literal assigned-task and work-log listings behind them.
func (s *ProgressService) EmployeeProgress(ctx context.Context, workspace, userID primitive.ObjectID, from, to string) (*models.EmployeeProgress, error) {
	now := s.now()
	window := resolveDateRangeAt(from, to, now)

	var (
		tasks    []models.Task
		logRows  []models.WorkLogRow
		projects []models.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tasks, err = s.tasks.Find(gctx, models.TaskFilter{Workspace: workspace, AssignedTo: &userID})
		return err
	})
	g.Go(func() (err error) {
		logRows, err = s.workLogs.FindInWindow(gctx, workspace, &userID, window)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.projects.FindByWorkspace(gctx, workspace)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather employee progress data: %v", err)
	}

	stat := models.EmployeeStat{UserID: userID}
	for i := range tasks {
		stat.TotalAssigned++
		if tasks[i].Status == models.StatusDone {
			stat.Done++
		} else {
			stat.Pending++
		}
	}
	for i := range logRows {
		row := &logRows[i]
		stat.TotalMinutes += row.DurationMinutes
		stat.TotalPages += row.PagesCompleted
		if stat.LastActiveAt == nil || row.ActivityAt.After(*stat.LastActiveAt) {
			at := row.ActivityAt
			stat.LastActiveAt = &at
		}
	}
	stat.TotalHours = roundHours(stat.TotalMinutes)

	projectsByID := make(map[primitive.ObjectID]*models.Project, len(projects))
	for i := range projects {
		projectsByID[projects[i].ID] = &projects[i]
	}

	employeeTasks := make([]models.EmployeeTask, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		et := models.EmployeeTask{
			ID:           task.ID,
			TaskCode:     task.TaskCode,
			Title:        task.Title,
			TaskTypeCode: task.TaskTypeCode,
			TaskTypeName: task.TaskTypeName,
			Status:       task.Status,
		}
		if p, ok := projectsByID[task.Project]; ok {
			et.Project = &models.ProjectSummary{
				ID:         p.ID,
				Name:       p.Name,
				ClientID:   p.ClientID,
				ClientName: p.ClientName,
			}
		}
		employeeTasks = append(employeeTasks, et)
	}

	sort.SliceStable(logRows, func(i, j int) bool {
		return logRows[i].ActivityAt.After(logRows[j].ActivityAt)
	})

	return &models.EmployeeProgress{
		DateRange: window,
		Employee:  stat,
		Tasks:     employeeTasks,
		WorkLogs:  logRows,
	}, nil
}

func buildTaskStats(tasks []models.Task, now time.Time) models.TaskStats {
	stats := models.TaskStats{
		TasksByStatus: make(map[models.TaskStatus]int),
	}
	for i := range tasks {
		task := &tasks[i]
		stats.TotalTasks++
		stats.TasksByStatus[task.Status]++
		if task.Status == models.StatusDone {
			stats.DoneTasks++
		}
		if task.Overdue(now) {
			stats.OverdueTasks++
		}
	}
	stats.PendingTasks = stats.TotalTasks - stats.DoneTasks
	if stats.PendingTasks < 0 {
		stats.PendingTasks = 0
	}
	return stats
}

func buildProjectStats(projects []models.Project, tasks []models.Task) models.ProjectStats {
	type counts struct{ total, done int }
	byProject := make(map[primitive.ObjectID]*counts)
	for i := range tasks {
		task := &tasks[i]
		if task.Project.IsZero() {
			continue
		}
		c := byProject[task.Project]
		if c == nil {
			c = &counts{}
			byProject[task.Project] = c
		}
		c.total++
		if task.Status == models.StatusDone {
			c.done++
		}
	}

	stats := models.ProjectStats{TotalProjects: len(projects)}
	for _, c := range byProject {
		if c.total > 0 && c.done == c.total {
			stats.CompletedProjects++
		}
		if c.total-c.done > 0 {
			stats.ActiveProjects++
		}
	}
	return stats
}

func buildClientStats(projects []models.Project) models.ClientStats {
	type clientKey struct{ id, name string }
	byClient := make(map[clientKey]int)
	for i := range projects {
		key := clientKey{id: projects[i].ClientID, name: projects[i].ClientName}
		if key.id == "" {
			key.id = unknownClientID
		}
		if key.name == "" {
			key.name = unknownClientName
		}
		byClient[key]++
	}

	rows := make([]models.ClientProjects, 0, len(byClient))
	for key, count := range byClient {
		rows = append(rows, models.ClientProjects{
			ClientID:     key.id,
			ClientName:   key.name,
			ProjectCount: count,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProjectCount != rows[j].ProjectCount {
			return rows[i].ProjectCount > rows[j].ProjectCount
		}
		return rows[i].ClientName < rows[j].ClientName
	})

	return models.ClientStats{
		TotalClients:     len(rows),
		ProjectsByClient: rows,
	}
}

func buildEmployeeStats(roster []models.Member, tasks []models.Task, logRows []models.WorkLogRow) []models.EmployeeStat {
	type assignment struct{ total, done, pending int }
	assignments := make(map[primitive.ObjectID]*assignment)
	for i := range tasks {
		task := &tasks[i]
		if task.AssignedTo == nil {
			continue
		}
		a := assignments[*task.AssignedTo]
		if a == nil {
			a = &assignment{}
			assignments[*task.AssignedTo] = a
		}
		a.total++
		if task.Status == models.StatusDone {
			a.done++
		} else {
			a.pending++
		}
	}

	type activity struct {
		minutes int64
		pages   int
		lastAt  time.Time
	}
	activities := make(map[primitive.ObjectID]*activity)
	for i := range logRows {
		row := &logRows[i]
		act := activities[row.UserID]
		if act == nil {
			act = &activity{}
			activities[row.UserID] = act
		}
		act.minutes += row.DurationMinutes
		act.pages += row.PagesCompleted
		if row.ActivityAt.After(act.lastAt) {
			act.lastAt = row.ActivityAt
		}
	}

	// Every roster member gets exactly one row, zero-filled when idle.
	stats := make([]models.EmployeeStat, 0, len(roster))
	for _, member := range roster {
		stat := models.EmployeeStat{
			UserID: member.UserID,
			Name:   member.Name,
		}
		if a, ok := assignments[member.UserID]; ok {
			stat.TotalAssigned = a.total
			stat.Done = a.done
			stat.Pending = a.pending
		}
		if act, ok := activities[member.UserID]; ok {
			stat.TotalMinutes = act.minutes
			stat.TotalPages = act.pages
			lastAt := act.lastAt
			stat.LastActiveAt = &lastAt
		}
		stat.TotalHours = roundHours(stat.TotalMinutes)
		stats = append(stats, stat)
	}
	return stats
}

// roundHours converts minutes to hours rounded to two decimals, matching
// how the dashboards display throughput.
func roundHours(minutes int64) float64 {
	return math.Round(float64(minutes)/60.0*100) / 100
}
