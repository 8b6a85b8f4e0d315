package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/geocoin/internal/grid"
)

// Replay delivers a fixed track of locations.
type Replay struct {
	Track    []grid.LatLng
	Interval time.Duration
	Loop     bool // Start over after the last point instead of stopping
}

// Subscribe implements Feed.
func (r *Replay) Subscribe(ctx context.Context, h Handler) *Subscription {
	track := append([]grid.LatLng(nil), r.Track...)
	return Run(ctx, r.Interval, func(n int) (grid.LatLng, bool) {
		if len(track) == 0 {
			return grid.LatLng{}, false
		}
		if r.Loop {
			return track[n%len(track)], true
		}
		if n >= len(track) {
			return grid.LatLng{}, false
		}
		return track[n], true
	}, h)
}

// trackFile is the YAML layout of a recorded track:
//
//	points:
//	  - {lat: 36.9895, lng: -122.0628}
//	  - {lat: 36.9896, lng: -122.0628}
type trackFile struct {
	Points []grid.LatLng `yaml:"points"`
}

// ReadTrack parses a YAML track.
func ReadTrack(r io.Reader) ([]grid.LatLng, error) {
	var tf trackFile
	if err := yaml.NewDecoder(r).Decode(&tf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("feed: track is empty")
		}
		return nil, fmt.Errorf("feed: cannot parse track: %w", err)
	}
	if len(tf.Points) == 0 {
		return nil, errors.New("feed: track has no points")
	}
	for i, p := range tf.Points {
		if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
			return nil, fmt.Errorf("feed: track point %d out of range: %v", i, p)
		}
	}
	return tf.Points, nil
}

// LoadTrack reads a YAML track file.
func LoadTrack(path string) ([]grid.LatLng, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: cannot open track %s: %w", path, err)
	}
	defer f.Close()
	return ReadTrack(f)
}
