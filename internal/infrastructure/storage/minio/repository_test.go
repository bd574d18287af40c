package minio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

type RepositoryTestSuite struct {
	suite.Suite
	mockAPI *MockMinIOAPI
	repo    PoseRepository
	dir     string
}

func (s *RepositoryTestSuite) SetupTest() {
	s.mockAPI = new(MockMinIOAPI)
	s.mockAPI.On("BucketExists", mock.Anything, "docking").Return(true, nil)
	client, err := NewMinIOClientWithAPI(context.Background(), s.mockAPI, &MinIOConfig{Bucket: "docking"}, logging.NewNopLogger())
	require.NoError(s.T(), err)
	s.repo = NewPoseRepository(client, logging.NewNopLogger())
	s.dir = s.T().TempDir()
}

func (s *RepositoryTestSuite) writePose(name, body string) string {
	p := filepath.Join(s.dir, name)
	require.NoError(s.T(), os.WriteFile(p, []byte(body), 0o644))
	return p
}

func (s *RepositoryTestSuite) TestObjectKey() {
	assert.Equal(s.T(), "poses/run-1/lig_out.pdbqt", s.repo.ObjectKey("run-1", "/tmp/out/lig_out.pdbqt"))
}

func (s *RepositoryTestSuite) TestUploadPose_Success() {
	p := s.writePose("lig_out.pdbqt", "MODEL 1\nENDMDL\n")
	s.mockAPI.On("PutObject", mock.Anything, "docking", "poses/run-1/lig_out.pdbqt", mock.Anything, int64(15),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == PoseContentType && o.UserMetadata["batch"] == "2"
		})).
		Return(minio.UploadInfo{Bucket: "docking", Key: "poses/run-1/lig_out.pdbqt", ETag: "etag", Size: 15}, nil)

	res, err := s.repo.UploadPose(context.Background(), "run-1", p, map[string]string{"batch": "2"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "docking", res.Bucket)
	assert.Equal(s.T(), "poses/run-1/lig_out.pdbqt", res.ObjectKey)
	assert.Equal(s.T(), "etag", res.ETag)
	assert.Equal(s.T(), p, res.LocalPath)
}

func (s *RepositoryTestSuite) TestUploadPose_MissingFile() {
	_, err := s.repo.UploadPose(context.Background(), "run-1", filepath.Join(s.dir, "absent.pdbqt"), nil)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeFileRead))
	s.mockAPI.AssertNotCalled(s.T(), "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *RepositoryTestSuite) TestUploadPose_InvalidRequest() {
	_, err := s.repo.UploadPose(context.Background(), "", "x", nil)
	assert.Equal(s.T(), ErrInvalidRequest, err)
}

func (s *RepositoryTestSuite) TestUploadPoses_StopsAtFirstFailure() {
	a := s.writePose("a_out.pdbqt", "a")
	b := s.writePose("b_out.pdbqt", "b")
	c := s.writePose("c_out.pdbqt", "c")
	s.mockAPI.On("PutObject", mock.Anything, "docking", "poses/r/a_out.pdbqt", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{Size: 1}, nil)
	s.mockAPI.On("PutObject", mock.Anything, "docking", "poses/r/b_out.pdbqt", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, fmt.Errorf("503 slow down"))

	res, err := s.repo.UploadPoses(context.Background(), "r", []string{a, b, c}, nil)
	require.Error(s.T(), err)
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageUpload))
	require.Len(s.T(), res, 1)
	assert.Equal(s.T(), "poses/r/a_out.pdbqt", res[0].ObjectKey)
	s.mockAPI.AssertNotCalled(s.T(), "PutObject", mock.Anything, "docking", "poses/r/c_out.pdbqt", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RepositoryTestSuite) TestExists() {
	s.mockAPI.On("StatObject", mock.Anything, "docking", "present", mock.Anything).
		Return(minio.ObjectInfo{Key: "present"}, nil)
	s.mockAPI.On("StatObject", mock.Anything, "docking", "absent", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	ok, err := s.repo.Exists(context.Background(), "present")
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	ok, err = s.repo.Exists(context.Background(), "absent")
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *RepositoryTestSuite) TestGetMetadata_NotFound() {
	s.mockAPI.On("StatObject", mock.Anything, "docking", "absent", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	_, err := s.repo.GetMetadata(context.Background(), "absent")
	assert.True(s.T(), errors.IsCode(err, errors.ErrCodeStorageUpload))
}

func (s *RepositoryTestSuite) TestList() {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "poses/r/a_out.pdbqt", Size: 100}
	ch <- minio.ObjectInfo{Key: "poses/r/b_out.pdbqt", Size: 120}
	close(ch)
	s.mockAPI.On("ListObjects", mock.Anything, "docking", minio.ListObjectsOptions{Prefix: "poses/r/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	objs, err := s.repo.List(context.Background(), "r")
	require.NoError(s.T(), err)
	require.Len(s.T(), objs, 2)
	assert.Equal(s.T(), "poses/r/b_out.pdbqt", objs[1].ObjectKey)
}

func (s *RepositoryTestSuite) TestDelete() {
	s.mockAPI.On("RemoveObject", mock.Anything, "docking", "k", mock.Anything).Return(nil)
	assert.NoError(s.T(), s.repo.Delete(context.Background(), "k"))
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

//Personal.AI order the ending
