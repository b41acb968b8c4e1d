package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nhle/release-planner/internal/model"
)

// Backend is an in-memory fake of the planner REST API for tests. All
// exported methods are safe for concurrent use.
type Backend struct {
	Server *httptest.Server

	// Today is the date the dashboard treats as "today".
	Today string

	requests atomic.Int64

	mu           sync.Mutex
	nextID       int64
	tasks        []model.Task
	events       []model.CalendarEvent
	accessTokens map[string]bool
	tempTokens   map[string]bool
	nickname     string
	failures     map[string]int
	dateFailures map[string]int
}

// NewBackend starts a fake backend that accepts the given access tokens.
// The server is closed when the test completes.
func NewBackend(t *testing.T, accessTokens ...string) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		Today:        "2025-03-10",
		nextID:       1,
		accessTokens: make(map[string]bool),
		tempTokens:   make(map[string]bool),
		failures:     make(map[string]int),
		dateFailures: make(map[string]int),
	}
	for _, tok := range accessTokens {
		b.accessTokens[tok] = true
	}

	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Requests returns how many HTTP requests reached the backend.
func (b *Backend) Requests() int {
	return int(b.requests.Load())
}

// AddTempToken makes token valid for the signup endpoint only.
func (b *Backend) AddTempToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tempTokens[token] = true
}

// Seed inserts tasks directly, assigning IDs, and returns the stored copies.
func (b *Backend) Seed(tasks ...model.Task) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		t.ID = b.nextID
		b.nextID++
		b.tasks = append(b.tasks, t)
		out = append(out, t)
	}
	return out
}

// SeedEvents inserts calendar events directly.
func (b *Backend) SeedEvents(events ...model.CalendarEvent) []model.CalendarEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		e.ID = b.nextID
		b.nextID++
		b.events = append(b.events, e)
		out = append(out, e)
	}
	return out
}

// Fail makes every request matching method and exact path (without query)
// answer with status until cleared with status 0.
func (b *Backend) Fail(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(b.failures, key)
		return
	}
	b.failures[key] = status
}

// FailDate makes GET /api/todos?date=date answer with status.
func (b *Backend) FailDate(date string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dateFailures[date] = status
}

// Tasks returns a copy of the stored tasks.
func (b *Backend) Tasks() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Task(nil), b.tasks...)
}

// Nickname returns the last nickname set through the API.
func (b *Backend) Nickname() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nickname
}

func (b *Backend) router() *gin.Engine {
	r := gin.New()
	r.Use(b.count, b.injectFailures)

	authed := r.Group("/", b.requireAccess)
	authed.GET("/api/todos", b.listTasks)
	authed.POST("/api/todos", b.createTask)
	authed.PUT("/api/todos/:id", b.updateTask)
	authed.PUT("/api/todos/:id/toggle", b.toggleTask)
	authed.DELETE("/api/todos/:id", b.deleteTask)
	authed.GET("/api/dashboard", b.dashboard)
	authed.GET("/api/calendar/events", b.listEvents)
	authed.POST("/api/calendar/events", b.createEvent)
	authed.PUT("/api/calendar/events/:id", b.updateEvent)
	authed.DELETE("/api/calendar/events/:id", b.deleteEvent)
	authed.PUT("/account/nickname", b.updateNickname)
	authed.DELETE("/account", b.deleteAccount)

	r.POST("/account/signup", b.requireTemp, b.signUp)
	return r
}

func (b *Backend) count(c *gin.Context) {
	b.requests.Add(1)
	c.Next()
}

func (b *Backend) injectFailures(c *gin.Context) {
	b.mu.Lock()
	status, ok := b.failures[c.Request.Method+" "+c.Request.URL.Path]
	if !ok && c.Request.Method == http.MethodGet && c.Request.URL.Path == "/api/todos" {
		status, ok = b.dateFailures[c.Query("date")]
	}
	b.mu.Unlock()

	if ok {
		c.AbortWithStatusJSON(status, gin.H{"message": fmt.Sprintf("injected %d", status)})
	}
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func (b *Backend) requireAccess(c *gin.Context) {
	b.mu.Lock()
	ok := b.accessTokens[bearer(c)]
	b.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
	}
}

func (b *Backend) requireTemp(c *gin.Context) {
	b.mu.Lock()
	ok := b.tempTokens[bearer(c)]
	b.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid temp token"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "bad id"})
		return 0, false
	}
	return id, true
}

func (b *Backend) listTasks(c *gin.Context) {
	date := c.Query("date")
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []model.Task{}
	for _, t := range b.tasks {
		if t.DueDate == date {
			out = append(out, t)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createTask(c *gin.Context) {
	var req struct {
		Text     string         `json:"text"`
		Priority model.Priority `json:"priority"`
		DueDate  string         `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "text is required"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	t := model.Task{ID: b.nextID, Text: req.Text, Priority: req.Priority, DueDate: req.DueDate}
	b.nextID++
	b.tasks = append(b.tasks, t)
	c.JSON(http.StatusOK, t)
}

func (b *Backend) findTask(id int64) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) updateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Text     string         `json:"text"`
		Priority model.Priority `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findTask(id)
	if i < 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "todo not found"})
		return
	}
	b.tasks[i].Text = req.Text
	b.tasks[i].Priority = req.Priority
	c.JSON(http.StatusOK, b.tasks[i])
}

func (b *Backend) toggleTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findTask(id)
	if i < 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "todo not found"})
		return
	}
	b.tasks[i].Completed = !b.tasks[i].Completed
	c.JSON(http.StatusOK, b.tasks[i])
}

func (b *Backend) deleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findTask(id)
	if i < 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "todo not found"})
		return
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (b *Backend) dashboard(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := model.DashboardSnapshot{TodaysTodos: []model.Task{}}
	for _, t := range b.tasks {
		if t.DueDate != b.Today {
			continue
		}
		snap.TodaysTodos = append(snap.TodaysTodos, t)
		snap.TodaysTotalCount++
		if t.Completed {
			snap.TodaysCompletedCount++
		}
	}
	if snap.TodaysTotalCount > 0 {
		snap.TodaysProgress = snap.TodaysCompletedCount * 100 / snap.TodaysTotalCount
	}
	snap.OverallProgress = snap.TodaysProgress

	c.JSON(http.StatusOK, gin.H{
		"todaysTodos":          snap.TodaysTodos,
		"todaysCompletedCount": snap.TodaysCompletedCount,
		"todaysTotalCount":     snap.TodaysTotalCount,
		"todaysProgress":       snap.TodaysProgress,
		"tomorrowsTodoCount":   0,
		"overallProgress":      snap.OverallProgress,
		"weeklyChartData": []gin.H{
			{"name": "월", "저번주": 20, "이번주": 25},
			{"name": "화", "저번주": 30, "이번주": 28},
		},
	})
}

func (b *Backend) listEvents(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]model.CalendarEvent{}, b.events...)
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createEvent(c *gin.Context) {
	var req model.CalendarEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	req.ID = b.nextID
	b.nextID++
	b.events = append(b.events, req)
	c.JSON(http.StatusOK, req)
}

func (b *Backend) findEvent(id int64) int {
	for i, e := range b.events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) updateEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Title string          `json:"title"`
		Type  model.EventType `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findEvent(id)
	if i < 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "event not found"})
		return
	}
	b.events[i].Title = req.Title
	b.events[i].Type = req.Type
	c.JSON(http.StatusOK, b.events[i])
}

func (b *Backend) deleteEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findEvent(id)
	if i < 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "event not found"})
		return
	}
	b.events = append(b.events[:i], b.events[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (b *Backend) signUp(c *gin.Context) {
	var req struct {
		Nickname  string `json:"nickname"`
		Email     string `json:"email"`
		LoginType string `json:"loginType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	token := "access-" + req.Nickname
	b.accessTokens[token] = true
	delete(b.tempTokens, bearer(c))
	b.nickname = req.Nickname

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "회원가입 성공",
		"data": gin.H{
			"id":        7,
			"email":     req.Email,
			"nickname":  req.Nickname,
			"userToken": token,
		},
	})
}

func (b *Backend) updateNickname(c *gin.Context) {
	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nickname = req.Nickname
	c.Status(http.StatusOK)
}

func (b *Backend) deleteAccount(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.accessTokens, bearer(c))
	b.tasks = nil
	b.events = nil
	c.Status(http.StatusNoContent)
}
