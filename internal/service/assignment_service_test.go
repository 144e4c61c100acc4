package service

import (
	"athletiq/coach-app/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type assignmentFixture struct {
	svc            AssignmentService
	assignmentRepo *mockAssignmentRepo
	recurringRepo  *mockRecurringRepo
	groupRepo      *mockGroupRepo
	userRepo       *mockUserRepo
	templateRepo   *mockTemplateRepo
	customRepo     *mockCustomWorkoutRepo
}

func newAssignmentFixture() *assignmentFixture {
	f := &assignmentFixture{
		assignmentRepo: newMockAssignmentRepo(),
		recurringRepo:  newMockRecurringRepo(),
		groupRepo:      newMockGroupRepo(),
		userRepo:       newMockUserRepo(),
		templateRepo:   newMockTemplateRepo(),
		customRepo:     newMockCustomWorkoutRepo(),
	}
	f.svc = NewAssignmentService(
		f.assignmentRepo,
		f.recurringRepo,
		f.groupRepo,
		f.userRepo,
		f.templateRepo,
		f.customRepo,
		passthroughTxn{},
		zap.NewNop(),
	)
	return f
}

func (f *assignmentFixture) addTemplate(t *testing.T, title string) domain.SourceRef {
	t.Helper()
	tpl := &domain.WorkoutTemplate{Title: title}
	id, err := f.templateRepo.Create(context.Background(), tpl)
	require.NoError(t, err)
	return domain.SourceRef{Type: domain.SourceTemplate, ID: id}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAssignFansOutPerAthlete(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Leg Day")
	athletes := []primitive.ObjectID{
		primitive.NewObjectID(),
		primitive.NewObjectID(),
		primitive.NewObjectID(),
	}

	created, err := f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), domain.AssignmentTarget{AthleteIDs: athletes})
	require.NoError(t, err)
	require.Len(t, created, 3)

	seen := make(map[primitive.ObjectID]bool)
	for _, a := range created {
		assert.Equal(t, coachID, a.CoachID)
		assert.Equal(t, ref, a.Source)
		assert.Equal(t, domain.StatusUpcoming, a.Status)
		assert.Equal(t, date(2024, time.March, 4), a.ScheduledDate)
		assert.Nil(t, a.RecurringID)
		seen[a.AthleteID] = true
	}
	assert.Len(t, seen, 3)
}

func TestAssignToGroupResolvesMembers(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Intervals")
	members := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	groupID, err := f.groupRepo.Create(context.Background(), &domain.Group{
		CoachID:    coachID,
		Name:       "Sprinters",
		AthleteIDs: members,
	})
	require.NoError(t, err)

	created, err := f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), domain.AssignmentTarget{GroupID: &groupID})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestAssignToEmptyGroupCreatesNothing(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Recovery")

	groupID, err := f.groupRepo.Create(context.Background(), &domain.Group{
		CoachID: coachID,
		Name:    "Empty",
	})
	require.NoError(t, err)

	created, err := f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), domain.AssignmentTarget{GroupID: &groupID})
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestAssignGroupOwnershipAndExistence(t *testing.T) {
	f := newAssignmentFixture()
	ref := f.addTemplate(t, "Anything")

	missing := primitive.NewObjectID()
	_, err := f.svc.Assign(context.Background(), primitive.NewObjectID(), ref, date(2024, time.March, 4), domain.AssignmentTarget{GroupID: &missing})
	assert.ErrorIs(t, err, ErrGroupNotFound)

	groupID, err := f.groupRepo.Create(context.Background(), &domain.Group{
		CoachID:    primitive.NewObjectID(),
		Name:       "Someone else's",
		AthleteIDs: []primitive.ObjectID{primitive.NewObjectID()},
	})
	require.NoError(t, err)

	_, err = f.svc.Assign(context.Background(), primitive.NewObjectID(), ref, date(2024, time.March, 4), domain.AssignmentTarget{GroupID: &groupID})
	assert.ErrorIs(t, err, ErrGroupAccessDenied)
}

func TestAssignRejectsInvalidTarget(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Anything")
	groupID := primitive.NewObjectID()

	// Neither athletes nor group.
	_, err := f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), domain.AssignmentTarget{})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	// Both at once.
	_, err = f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), domain.AssignmentTarget{
		AthleteIDs: []primitive.ObjectID{primitive.NewObjectID()},
		GroupID:    &groupID,
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestAssignRejectsInvalidSource(t *testing.T) {
	f := newAssignmentFixture()

	_, err := f.svc.Assign(
		context.Background(),
		primitive.NewObjectID(),
		domain.SourceRef{Type: "BOGUS", ID: primitive.NewObjectID()},
		date(2024, time.March, 4),
		domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{primitive.NewObjectID()}},
	)
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestReassignSameDayCreatesDuplicate(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Repeatable")
	athlete := primitive.NewObjectID()
	target := domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{athlete}}

	_, err := f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), target)
	require.NoError(t, err)
	_, err = f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), target)
	require.NoError(t, err)

	assignments, err := f.assignmentRepo.GetByAthleteID(context.Background(), athlete)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
}

func TestCreateRecurringExpandsMatchingWeekdays(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Morning Run")
	athletes := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	// Jan 1 2024 is a Monday. Mondays and Wednesdays in Jan 1-14:
	// 1, 3, 8, 10.
	result, err := f.svc.CreateRecurring(
		context.Background(),
		coachID,
		ref,
		domain.AssignmentTarget{AthleteIDs: athletes},
		domain.FrequencyWeekly,
		[]int{1, 3},
		date(2024, time.January, 1),
		date(2024, time.January, 14),
	)
	require.NoError(t, err)

	require.Len(t, result.Created, 8) // 4 dates x 2 athletes
	assert.True(t, result.Recurring.Active)

	wantDates := map[time.Time]int{
		date(2024, time.January, 1):  0,
		date(2024, time.January, 3):  0,
		date(2024, time.January, 8):  0,
		date(2024, time.January, 10): 0,
	}
	for _, a := range result.Created {
		require.NotNil(t, a.RecurringID)
		assert.Equal(t, result.Recurring.ID, *a.RecurringID)
		assert.Equal(t, domain.StatusUpcoming, a.Status)
		_, ok := wantDates[a.ScheduledDate]
		require.True(t, ok, "unexpected date %v", a.ScheduledDate)
		wantDates[a.ScheduledDate]++
	}
	for d, n := range wantDates {
		assert.Equal(t, 2, n, "expected one assignment per athlete on %v", d)
	}
}

func TestCreateRecurringSingleDayRange(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "One Off")
	athlete := primitive.NewObjectID()

	// Jan 6 2024 is a Saturday.
	result, err := f.svc.CreateRecurring(
		context.Background(),
		coachID,
		ref,
		domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{athlete}},
		domain.FrequencyWeekly,
		[]int{6},
		date(2024, time.January, 6),
		date(2024, time.January, 6),
	)
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
}

func TestCreateRecurringValidation(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Anything")
	target := domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{primitive.NewObjectID()}}

	_, err := f.svc.CreateRecurring(context.Background(), coachID, ref, target,
		domain.FrequencyWeekly, []int{7}, date(2024, time.January, 1), date(2024, time.January, 14))
	assert.ErrorIs(t, err, ErrInvalidDaysOfWeek)

	_, err = f.svc.CreateRecurring(context.Background(), coachID, ref, target,
		domain.FrequencyWeekly, nil, date(2024, time.January, 1), date(2024, time.January, 14))
	assert.ErrorIs(t, err, ErrInvalidDaysOfWeek)

	_, err = f.svc.CreateRecurring(context.Background(), coachID, ref, target,
		domain.FrequencyWeekly, []int{1}, date(2024, time.January, 14), date(2024, time.January, 1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// Nothing persisted by the rejected calls.
	rules, err := f.recurringRepo.GetByCoachID(context.Background(), coachID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestStopRecurring(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	ref := f.addTemplate(t, "Stoppable")
	athlete := primitive.NewObjectID()

	result, err := f.svc.CreateRecurring(
		context.Background(),
		coachID,
		ref,
		domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{athlete}},
		domain.FrequencyWeekly,
		[]int{1},
		date(2024, time.January, 1),
		date(2024, time.January, 14),
	)
	require.NoError(t, err)
	createdBefore := len(result.Created)

	// A stranger may not stop it.
	err = f.svc.StopRecurring(context.Background(), result.Recurring.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrRecurringAccessDenied)

	err = f.svc.StopRecurring(context.Background(), result.Recurring.ID, coachID)
	require.NoError(t, err)

	rec, err := f.recurringRepo.GetByID(context.Background(), result.Recurring.ID)
	require.NoError(t, err)
	assert.False(t, rec.Active)

	// Stopping never retracts what was already created.
	assignments, err := f.assignmentRepo.GetByAthleteID(context.Background(), athlete)
	require.NoError(t, err)
	assert.Len(t, assignments, createdBefore)

	err = f.svc.StopRecurring(context.Background(), primitive.NewObjectID(), coachID)
	assert.ErrorIs(t, err, ErrRecurringNotFound)
}

func TestListForAthleteEnrichment(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	athleteID := primitive.NewObjectID()

	_, err := f.userRepo.Create(context.Background(), &domain.User{
		ID:        coachID,
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "dana@example.com",
		Role:      domain.RoleCoach,
	})
	require.NoError(t, err)

	ref := f.addTemplate(t, "Tempo Run")
	target := domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{athleteID}}

	_, err = f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4), target)
	require.NoError(t, err)
	_, err = f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 11), target)
	require.NoError(t, err)

	views, err := f.svc.ListForAthlete(context.Background(), athleteID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Newest scheduled date first.
	assert.Equal(t, date(2024, time.March, 11), views[0].ScheduledDate)
	assert.Equal(t, date(2024, time.March, 4), views[1].ScheduledDate)

	for _, v := range views {
		assert.Equal(t, "Tempo Run", v.WorkoutTitle)
		assert.Equal(t, "Dana Reyes", v.CoachName)
	}
}

func TestListForCoachFallbacks(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	athleteID := primitive.NewObjectID() // never registered in the directory

	danglingRef := domain.SourceRef{Type: domain.SourceTemplate, ID: primitive.NewObjectID()}
	_, err := f.svc.Assign(context.Background(), coachID, danglingRef, date(2024, time.March, 4),
		domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{athleteID}})
	require.NoError(t, err)

	views, err := f.svc.ListForCoach(context.Background(), coachID)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "#"+danglingRef.ID.Hex(), views[0].WorkoutTitle)
	assert.Equal(t, domain.UnknownUserName, views[0].AthleteName)
}

func TestListForCoachNameFallsBackToEmail(t *testing.T) {
	f := newAssignmentFixture()
	coachID := primitive.NewObjectID()
	athleteID := primitive.NewObjectID()

	_, err := f.userRepo.Create(context.Background(), &domain.User{
		ID:    athleteID,
		Email: "athlete@example.com",
		Role:  domain.RoleAthlete,
	})
	require.NoError(t, err)

	ref := f.addTemplate(t, "Easy Spin")
	_, err = f.svc.Assign(context.Background(), coachID, ref, date(2024, time.March, 4),
		domain.AssignmentTarget{AthleteIDs: []primitive.ObjectID{athleteID}})
	require.NoError(t, err)

	views, err := f.svc.ListForCoach(context.Background(), coachID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "athlete@example.com", views[0].AthleteName)
}
