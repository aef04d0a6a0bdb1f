package board

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// faultyBoardRepo wraps the real repository so individual calls can be
// counted or made to fail.
type faultyBoardRepo struct {
	repository.BoardRepository
	moveCalls    int
	failMove     bool
	failEnriched bool
	failColumns  bool
	failTasks    bool
}

func (r *faultyBoardRepo) ListColumns(projectID string) ([]models.BoardColumn, error) {
	if r.failColumns {
		return nil, errors.New("columns query failed")
	}
	return r.BoardRepository.ListColumns(projectID)
}

func (r *faultyBoardRepo) ListTasksEnriched(projectID string) ([]models.Task, error) {
	if r.failEnriched {
		return nil, errors.New("enriched query failed")
	}
	return r.BoardRepository.ListTasksEnriched(projectID)
}

func (r *faultyBoardRepo) ListTasks(projectID string) ([]models.Task, error) {
	if r.failTasks {
		return nil, errors.New("tasks query failed")
	}
	return r.BoardRepository.ListTasks(projectID)
}

func (r *faultyBoardRepo) MoveTask(taskID, columnID string) error {
	r.moveCalls++
	if r.failMove {
		return errors.New("move write failed")
	}
	return r.BoardRepository.MoveTask(taskID, columnID)
}

type StoreTestSuite struct {
	suite.Suite
	db        *gorm.DB
	repo      *faultyBoardRepo
	store     *Store
	projectID string
	userID    string
}

func (suite *StoreTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.BoardColumn{},
		&models.TaskCategory{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	suite.projectID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.repo = &faultyBoardRepo{BoardRepository: repository.NewBoardRepository(suite.db)}
	suite.store = NewStore(suite.projectID, suite.repo, NopNotifier{})
}

func (suite *StoreTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *StoreTestSuite) createColumn(title string, position int) *models.BoardColumn {
	column := &models.BoardColumn{
		Title:     title,
		Position:  position,
		ProjectID: suite.projectID,
	}
	suite.Require().NoError(suite.db.Create(column).Error)
	return column
}

func (suite *StoreTestSuite) createTask(title, columnID string) *models.Task {
	task := &models.Task{
		Title:     title,
		ColumnID:  columnID,
		ProjectID: suite.projectID,
		CreatedBy: suite.userID,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *StoreTestSuite) columnTasks(columnID string) []models.Task {
	for _, col := range suite.store.Columns() {
		if col.ID == columnID {
			return col.Tasks
		}
	}
	suite.FailNow("column not found in store state", columnID)
	return nil
}

func (suite *StoreTestSuite) TestLoad_GroupsTasksByColumn() {
	todo := suite.createColumn("To Do", 0)
	done := suite.createColumn("Done", 1)
	a := suite.createTask("Task A", todo.ID)
	b := suite.createTask("Task B", done.ID)

	suite.Require().NoError(suite.store.Load(suite.userID))

	suite.False(suite.store.Loading())
	columns := suite.store.Columns()
	suite.Require().Len(columns, 2)
	suite.Equal("To Do", columns[0].Title)
	suite.Require().Len(columns[0].Tasks, 1)
	suite.Equal(a.ID, columns[0].Tasks[0].ID)
	suite.Require().Len(columns[1].Tasks, 1)
	suite.Equal(b.ID, columns[1].Tasks[0].ID)
}

func (suite *StoreTestSuite) TestLoad_RequiresActor() {
	suite.ErrorIs(suite.store.Load(""), ErrNoActingUser)
}

func (suite *StoreTestSuite) TestLoad_EnrichedFailureFallsBackToRawRows() {
	todo := suite.createColumn("To Do", 0)
	suite.createTask("Task A", todo.ID)

	suite.repo.failEnriched = true

	suite.Require().NoError(suite.store.Load(suite.userID))
	suite.Len(suite.columnTasks(todo.ID), 1)
	suite.Nil(suite.columnTasks(todo.ID)[0].Assignee)
}

func (suite *StoreTestSuite) TestLoad_FailedRefreshKeepsPriorState() {
	todo := suite.createColumn("To Do", 0)
	suite.createTask("Task A", todo.ID)

	suite.Require().NoError(suite.store.Load(suite.userID))

	suite.repo.failColumns = true
	err := suite.store.Load(suite.userID)
	suite.Error(err)
	suite.False(suite.store.Loading())
	suite.Len(suite.columnTasks(todo.ID), 1)
}

func (suite *StoreTestSuite) TestLoad_ClosedStoreDiscardsResults() {
	suite.createColumn("To Do", 0)
	suite.store.Close()

	suite.ErrorIs(suite.store.Load(suite.userID), ErrStoreClosed)
	suite.Empty(suite.store.Columns())
}

func (suite *StoreTestSuite) TestMoveTask_ReassignsColumn() {
	todo := suite.createColumn("To Do", 0)
	done := suite.createColumn("Done", 1)
	task := suite.createTask("Ship it", todo.ID)

	suite.Require().NoError(suite.store.Load(suite.userID))
	suite.Require().NoError(suite.store.MoveTask(suite.userID, task.ID, done.ID))

	suite.Empty(suite.columnTasks(todo.ID))
	moved := suite.columnTasks(done.ID)
	suite.Require().Len(moved, 1)
	suite.Equal(done.ID, moved[0].ColumnID)

	var persisted models.Task
	suite.Require().NoError(suite.db.First(&persisted, "id = ?", task.ID).Error)
	suite.Equal(done.ID, persisted.ColumnID)
}

func (suite *StoreTestSuite) TestMoveTask_SameColumnIsANoOp() {
	todo := suite.createColumn("To Do", 0)
	task := suite.createTask("Stay put", todo.ID)

	suite.Require().NoError(suite.store.Load(suite.userID))
	before := suite.store.Columns()

	suite.Require().NoError(suite.store.MoveTask(suite.userID, task.ID, todo.ID))

	suite.Equal(0, suite.repo.moveCalls)
	suite.Equal(before, suite.store.Columns())
}

func (suite *StoreTestSuite) TestMoveTask_UnknownTask() {
	suite.createColumn("To Do", 0)
	suite.Require().NoError(suite.store.Load(suite.userID))

	err := suite.store.MoveTask(suite.userID, uuid.NewString(), uuid.NewString())
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.Equal(0, suite.repo.moveCalls)
}

func (suite *StoreTestSuite) TestMoveTask_ForeignColumnRejected() {
	todo := suite.createColumn("To Do", 0)
	task := suite.createTask("Homebody", todo.ID)

	other := &models.BoardColumn{Title: "Elsewhere", Position: 0, ProjectID: uuid.NewString()}
	suite.Require().NoError(suite.db.Create(other).Error)

	suite.Require().NoError(suite.store.Load(suite.userID))

	err := suite.store.MoveTask(suite.userID, task.ID, other.ID)
	suite.ErrorIs(err, ErrColumnNotFound)
	suite.Equal(0, suite.repo.moveCalls)
	suite.Len(suite.columnTasks(todo.ID), 1)
}

func (suite *StoreTestSuite) TestMoveTask_PersistenceFailureRollsBack() {
	todo := suite.createColumn("To Do", 0)
	done := suite.createColumn("Done", 1)
	task := suite.createTask("Fragile", todo.ID)

	suite.Require().NoError(suite.store.Load(suite.userID))
	suite.repo.failMove = true

	err := suite.store.MoveTask(suite.userID, task.ID, done.ID)
	suite.Error(err)

	suite.Require().Len(suite.columnTasks(todo.ID), 1)
	suite.Equal(task.ID, suite.columnTasks(todo.ID)[0].ID)
	suite.Empty(suite.columnTasks(done.ID))

	var persisted models.Task
	suite.Require().NoError(suite.db.First(&persisted, "id = ?", task.ID).Error)
	suite.Equal(todo.ID, persisted.ColumnID)
}

func (suite *StoreTestSuite) TestMoveTask_DeduplicatesOnMove() {
	todo := suite.createColumn("To Do", 0)
	done := suite.createColumn("Done", 1)
	task := suite.createTask("Doubled", todo.ID)

	suite.Require().NoError(suite.store.Load(suite.userID))

	// Inject a duplicate of the task into the second column, simulating a
	// stale refresh. The move must leave exactly one copy behind.
	suite.store.mu.Lock()
	dup := suite.store.columns[0].Tasks[0]
	suite.store.columns[1].Tasks = append(suite.store.columns[1].Tasks, dup)
	suite.store.mu.Unlock()

	suite.Require().NoError(suite.store.MoveTask(suite.userID, task.ID, done.ID))

	suite.Empty(suite.columnTasks(todo.ID))
	suite.Len(suite.columnTasks(done.ID), 1)
}

func (suite *StoreTestSuite) TestCreateTask_RequiresTitle() {
	suite.createColumn("To Do", 0)

	_, err := suite.store.CreateTask(suite.userID, CreateTaskInput{Title: "   "})
	suite.ErrorIs(err, ErrTitleRequired)
}

func (suite *StoreTestSuite) TestCreateTask_RefusesWithoutColumns() {
	_, err := suite.store.CreateTask(suite.userID, CreateTaskInput{Title: "Orphan"})
	suite.ErrorIs(err, ErrNoColumns)
}

func (suite *StoreTestSuite) TestCreateTask_RequiresColumn() {
	suite.createColumn("To Do", 0)

	_, err := suite.store.CreateTask(suite.userID, CreateTaskInput{Title: "No lane"})
	suite.ErrorIs(err, ErrColumnRequired)
}

func (suite *StoreTestSuite) TestCreateTask_ForeignColumnRejected() {
	suite.createColumn("To Do", 0)
	foreign := &models.BoardColumn{
		Title:     "Elsewhere",
		ProjectID: uuid.NewString(),
	}
	suite.Require().NoError(suite.db.Create(foreign).Error)

	_, err := suite.store.CreateTask(suite.userID, CreateTaskInput{
		Title:    "Smuggled",
		ColumnID: foreign.ID,
	})
	suite.ErrorIs(err, ErrColumnNotFound)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *StoreTestSuite) TestCreateTask_DefaultsAndSentinels() {
	todo := suite.createColumn("To Do", 0)

	task, err := suite.store.CreateTask(suite.userID, CreateTaskInput{
		Title:      "  Trim me  ",
		ColumnID:   todo.ID,
		CategoryID: "none",
		AssigneeID: "",
	})
	suite.Require().NoError(err)
	suite.Equal("Trim me", task.Title)
	suite.Equal(models.PriorityMedium, task.Priority)

	var persisted models.Task
	suite.Require().NoError(suite.db.First(&persisted, "id = ?", task.ID).Error)
	suite.Nil(persisted.CategoryID)
	suite.Nil(persisted.AssigneeID)
}

func (suite *StoreTestSuite) TestCreateTask_ReloadsBoard() {
	todo := suite.createColumn("To Do", 0)

	task, err := suite.store.CreateTask(suite.userID, CreateTaskInput{
		Title:    "Visible immediately",
		ColumnID: todo.ID,
	})
	suite.Require().NoError(err)

	tasks := suite.columnTasks(todo.ID)
	suite.Require().Len(tasks, 1)
	suite.Equal(task.ID, tasks[0].ID)
}

func (suite *StoreTestSuite) TestCreateTask_AssignsSequentialPositions() {
	todo := suite.createColumn("To Do", 0)

	first, err := suite.store.CreateTask(suite.userID, CreateTaskInput{Title: "First", ColumnID: todo.ID})
	suite.Require().NoError(err)
	second, err := suite.store.CreateTask(suite.userID, CreateTaskInput{Title: "Second", ColumnID: todo.ID})
	suite.Require().NoError(err)

	var a, b models.Task
	suite.Require().NoError(suite.db.First(&a, "id = ?", first.ID).Error)
	suite.Require().NoError(suite.db.First(&b, "id = ?", second.ID).Error)
	suite.Equal(0, a.Position)
	suite.Equal(1, b.Position)
}

func (suite *StoreTestSuite) TestUpdateTask_PartialFieldsAndSentinels() {
	todo := suite.createColumn("To Do", 0)
	task := suite.createTask("Original", todo.ID)

	category := uuid.NewString()
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("id = ?", task.ID).
		Update("category_id", category).Error)

	title := "Renamed"
	clear := "none"
	err := suite.store.UpdateTask(suite.userID, task.ID, UpdateTaskInput{
		Title:      &title,
		CategoryID: &clear,
	})
	suite.Require().NoError(err)

	var persisted models.Task
	suite.Require().NoError(suite.db.First(&persisted, "id = ?", task.ID).Error)
	suite.Equal("Renamed", persisted.Title)
	suite.Nil(persisted.CategoryID)
}

func (suite *StoreTestSuite) TestUpdateTask_ForeignColumnRejected() {
	todo := suite.createColumn("To Do", 0)
	task := suite.createTask("Stay home", todo.ID)
	foreign := &models.BoardColumn{
		Title:     "Elsewhere",
		ProjectID: uuid.NewString(),
	}
	suite.Require().NoError(suite.db.Create(foreign).Error)
	suite.Require().NoError(suite.store.Load(suite.userID))

	err := suite.store.UpdateTask(suite.userID, task.ID, UpdateTaskInput{
		ColumnID: &foreign.ID,
	})
	suite.ErrorIs(err, ErrColumnNotFound)

	var persisted models.Task
	suite.Require().NoError(suite.db.First(&persisted, "id = ?", task.ID).Error)
	suite.Equal(todo.ID, persisted.ColumnID)
}

func (suite *StoreTestSuite) TestUpdateTask_EmptyTitleRejected() {
	todo := suite.createColumn("To Do", 0)
	task := suite.createTask("Keep me", todo.ID)

	empty := ""
	err := suite.store.UpdateTask(suite.userID, task.ID, UpdateTaskInput{Title: &empty})
	suite.ErrorIs(err, ErrTitleRequired)
}

// A full pass over the drag lifecycle: load, move across columns, verify the
// piece count never changes and the database agrees with memory at the end.
func (suite *StoreTestSuite) TestBoardLifecycle() {
	todo := suite.createColumn("To Do", 0)
	progress := suite.createColumn("In Progress", 1)
	done := suite.createColumn("Done", 2)
	task := suite.createTask("Travelling", todo.ID)
	suite.createTask("Bystander", progress.ID)

	suite.Require().NoError(suite.store.Load(suite.userID))
	suite.Require().NoError(suite.store.MoveTask(suite.userID, task.ID, progress.ID))
	suite.Require().NoError(suite.store.MoveTask(suite.userID, task.ID, done.ID))

	total := 0
	for _, col := range suite.store.Columns() {
		total += len(col.Tasks)
	}
	suite.Equal(2, total)
	suite.Len(suite.columnTasks(done.ID), 1)

	var persisted models.Task
	suite.Require().NoError(suite.db.First(&persisted, "id = ?", task.ID).Error)
	suite.Equal(done.ID, persisted.ColumnID)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
