package chart

import (
	"slices"
	"time"
)

// Sample is one timestamped observation carrying a value for every series.
type Sample struct {
	Timestamp time.Time
	Values    [NumSeries]float64
}

// Value returns the sample's value for s.
func (s Sample) Value(series Series) float64 {
	return s.Values[series]
}

// Dataset is a chronologically ordered sequence of samples.
type Dataset struct {
	Samples []Sample
}

// NewDataset builds a dataset from samples, sorting them chronologically.
// Samples sharing a timestamp with an earlier one are dropped.
func NewDataset(samples ...Sample) Dataset {
	var d Dataset
	for _, s := range samples {
		d.Insert(s)
	}
	return d
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.Samples)
}

// Insert adds a sample at its chronological position. In the event that the
// dataset already contains a sample at that time, nothing is added and the
// method returns false.
func (d *Dataset) Insert(sample Sample) (inserted bool) {
	index, found := slices.BinarySearchFunc(d.Samples, sample.Timestamp, func(s Sample, t time.Time) int {
		return s.Timestamp.Compare(t)
	})
	if found {
		return false
	}
	d.Samples = slices.Insert(d.Samples, index, sample)
	return true
}

// Clone returns a copy of the dataset that shares no memory with d.
func (d Dataset) Clone() Dataset {
	return Dataset{Samples: slices.Clone(d.Samples)}
}

// Max returns the largest value across all series and samples.
func (d Dataset) Max() float64 {
	var m float64
	for _, s := range d.Samples {
		for _, v := range s.Values {
			m = max(m, v)
		}
	}
	return m
}

// Scale is the normalization maximum, Max with YScale headroom.
func (d Dataset) Scale() float64 {
	return YScale * d.Max()
}

// Last returns the most recent sample.
func (d Dataset) Last() (Sample, bool) {
	if len(d.Samples) == 0 {
		return Sample{}, false
	}
	return d.Samples[len(d.Samples)-1], true
}

func sample(date string, total, valid, unverified float64) Sample {
	ts, err := time.Parse(time.RFC3339, date)
	if err != nil {
		panic(err)
	}
	return Sample{
		Timestamp: ts,
		Values:    [NumSeries]float64{Total: total, Valid: valid, Unverified: unverified},
	}
}

// DefaultDataset returns the statistics shown before any data source is
// connected.
func DefaultDataset() Dataset {
	return NewDataset(
		sample("2018-07-24T20:00:00.000Z", 0, 0, 0),
		sample("2018-07-27T05:36:00.000Z", 15, 4, 2),
		sample("2018-07-29T15:12:00.000Z", 34, 24, 8),
		sample("2018-08-01T00:48:00.000Z", 45, 34, 0),
		sample("2018-08-03T10:24:00.000Z", 92, 70, 11),
	)
}
