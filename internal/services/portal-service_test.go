package services

import (
	"testing"

	"github.com/campuslink/portal_service/internal/domain"
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPortalFixture(t *testing.T) (PortalService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewPortalService(
		repository.NewUploadRepository(db),
		repository.NewDiscussionRepository(db),
		repository.NewSolutionRepository(db),
		nil, // no uploader needed for these paths
	)
	return svc, db
}

func TestDiscussionLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newPortalFixture(t)

	discussion, err := svc.CreateDiscussion(1, dto.CreateDiscussionRequest{
		Title: "Midterm syllabus?",
		Body:  "Does anyone know what CS301 covers this term?",
	})
	require.NoError(t, err)

	comment, err := svc.AddComment(2, discussion.ID, dto.CreateCommentRequest{Body: "Chapters 1-5."})
	require.NoError(t, err)

	got, err := svc.GetDiscussion(discussion.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, comment.ID, got.Comments[0].ID)

	// only the author or an admin can delete
	err = svc.DeleteComment(3, false, comment.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, svc.DeleteComment(2, false, comment.ID))

	err = svc.DeleteDiscussion(2, false, discussion.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, svc.DeleteDiscussion(99, true, discussion.ID))

	_, err = svc.GetDiscussion(discussion.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiscussion_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newPortalFixture(t)

	_, err := svc.CreateDiscussion(1, dto.CreateDiscussionRequest{Title: " ", Body: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddComment(1, 404, dto.CreateCommentRequest{Body: "hello"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadModeration(t *testing.T) {
	t.Parallel()

	svc, db := newPortalFixture(t)
	uploadRepo := repository.NewUploadRepository(db)

	require.NoError(t, uploadRepo.Create(&domain.Upload{
		UserID: 1, Title: "CS301 notes", Subject: "CS301", FileURL: "https://cdn/x.pdf",
	}))
	require.NoError(t, uploadRepo.Create(&domain.Upload{
		UserID: 2, Title: "MTH202 notes", Subject: "MTH202", FileURL: "https://cdn/y.pdf", Approved: true,
	}))

	// students only see approved uploads
	visible, err := svc.ListUploads("", false, 20, 0)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "MTH202 notes", visible[0].Title)

	// admins see everything and can approve
	all, err := svc.ListUploads("", true, 20, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	var pending domain.Upload
	require.NoError(t, db.First(&pending, "approved = ?", false).Error)
	require.NoError(t, svc.ApproveUpload(pending.ID))

	visible, err = svc.ListUploads("CS301", false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	// owner delete ok, stranger delete forbidden
	assert.ErrorIs(t, svc.DeleteUpload(9, false, pending.ID), ErrForbidden)
	assert.NoError(t, svc.DeleteUpload(1, false, pending.ID))
	assert.ErrorIs(t, svc.ApproveUpload(pending.ID), ErrNotFound)
}

func TestSolutionModeration(t *testing.T) {
	t.Parallel()

	svc, db := newPortalFixture(t)
	solutionRepo := repository.NewSolutionRepository(db)

	require.NoError(t, solutionRepo.Create(&domain.Solution{
		UserID: 1, CourseCode: "CS301", Term: "Fall 2025", Title: "Final solved", FileURL: "https://cdn/s.pdf",
	}))

	hidden, err := svc.ListSolutions("cs301", false, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, hidden, "unapproved solutions stay hidden from students")

	var solution domain.Solution
	require.NoError(t, db.First(&solution).Error)
	require.NoError(t, svc.ApproveSolution(solution.ID))

	// course filter is case insensitive via uppercasing
	listed, err := svc.ListSolutions("cs301", false, 20, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Final solved", listed[0].Title)

	assert.ErrorIs(t, svc.DeleteSolution(2, false, solution.ID), ErrForbidden)
	assert.NoError(t, svc.DeleteSolution(2, true, solution.ID))
}
