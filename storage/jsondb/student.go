package jsondb

import (
	"github.com/paycollect/paycollect/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) all() []student.Student {
	students := []student.Student{}
	repo.db.load(studentsFile, &students)
	return students
}

func (repo *studentRepository) CheckRollNumberUniqueness(rollNumber string, excluded ...student.Student) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	excl := make(map[string]bool, len(excluded))
	for _, st := range excluded {
		excl[st.ID] = true
	}
	for _, st := range repo.all() {
		if st.RollNumber == rollNumber && !excl[st.ID] {
			return student.ErrRollNumberExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	students := append(repo.all(), st)
	if err := repo.db.save(studentsFile, students); err != nil {
		return student.Student{}, err
	}
	return st, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	return repo.all(), nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, st := range repo.all() {
		if st.ID == id {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByRoll(rollNumber string) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, st := range repo.all() {
		if st.RollNumber == rollNumber {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	students := repo.all()
	for i := range students {
		if students[i].ID == st.ID {
			students[i] = st
			if err := repo.db.save(studentsFile, students); err != nil {
				return student.Student{}, err
			}
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudentByID(id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	students := repo.all()
	kept := students[:0]
	var found bool
	for _, st := range students {
		if st.ID == id {
			found = true
			continue
		}
		kept = append(kept, st)
	}
	if !found {
		return student.ErrNotFound
	}
	return repo.db.save(studentsFile, kept)
}
