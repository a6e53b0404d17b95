package inmemdb

import (
	"github.com/paycollect/paycollect/core/student"
)

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) CheckRollNumberUniqueness(rollNumber string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excl := make(map[string]bool, len(excluded))
	for _, st := range excluded {
		excl[st.ID] = true
	}
	for _, st := range repo.db.rows {
		if st.RollNumber == rollNumber && !excl[st.ID] {
			return student.ErrRollNumberExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.rows = append(repo.db.rows, st)
	return st, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	out := make([]student.Student, len(repo.db.rows))
	copy(out, repo.db.rows)
	return out, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	for _, st := range repo.db.rows {
		if st.ID == id {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByRoll(rollNumber string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	for _, st := range repo.db.rows {
		if st.RollNumber == rollNumber {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	for i := range repo.db.rows {
		if repo.db.rows[i].ID == st.ID {
			repo.db.rows[i] = st
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudentByID(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for i := range repo.db.rows {
		if repo.db.rows[i].ID == id {
			repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
			return nil
		}
	}
	return student.ErrNotFound
}
