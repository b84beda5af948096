package state

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// StoryState — персистентное состояние истории.
// LastPollMessageID равен nil только до самого первого шага.
type StoryState struct {
	CurrentStory      string `json:"current_story"`
	LastPollMessageID *int   `json:"last_poll_message_id"`
}

// FileStore хранит StoryState в одном JSON-файле рядом с программой.
// Единственный писатель — контроллер шага, блокировок нет.
type FileStore struct {
	path string
}

// NewFileStore создает хранилище состояния по указанному пути
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load читает состояние из файла.
// Отсутствующий или поврежденный файл означает начало с нуля.
func (s *FileStore) Load() (*StoryState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &StoryState{}, nil
		}
		log.Error().Err(err).Str("path", s.path).Msg("Не удалось прочитать файл состояния, начинаем заново")
		return &StoryState{}, nil
	}

	var st StoryState
	if err := json.Unmarshal(data, &st); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Не удалось распарсить файл состояния, начинаем заново")
		return &StoryState{}, nil
	}
	return &st, nil
}

// Save атомарно записывает состояние: сначала во временный файл, затем rename.
func (s *FileStore) Save(st *StoryState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации состояния: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("ошибка записи временного файла состояния: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("ошибка замены файла состояния: %w", err)
	}

	log.Info().Str("path", s.path).Int("story_len", len(st.CurrentStory)).Msg("Состояние сохранено")
	return nil
}
