package network

import (
	"errors"
	"fmt"
	"time"
)

// Time 仿真时间接口，提供仿真过程中的日历信息。
// 元件不维护日历，月份索引由宿主的时间网格提供。
type Time interface {
	// Step 获取当前步长序号（0-based）。
	Step() int

	// StepNum 获取仿真期内的步长总数。
	StepNum() int

	// Month 获取当前步长所在的月份索引（0 表示一月）。
	Month() int

	// MonthOf 获取指定步长所在的月份索引。
	MonthOf(step int) int
}

// Calendar 等间隔时间网格，是 Time 接口的基础实现。
type Calendar struct {
	start    time.Time     // 第一个步长的开始时间
	stepSize time.Duration // 步长
	steps    int           // 步长总数
	step     int           // 当前步长
}

// NewCalendar 创建时间网格。
//
//	start: 第一个步长的开始时间。
//	stepSize: 步长，必须大于0。
//	steps: 步长总数，必须大于0。
func NewCalendar(start time.Time, stepSize time.Duration, steps int) (*Calendar, error) {
	if stepSize <= 0 {
		return nil, errors.New("步长必须大于0")
	}
	if steps <= 0 {
		return nil, errors.New("步长总数必须大于0")
	}
	return &Calendar{start: start, stepSize: stepSize, steps: steps}, nil
}

// Step 获取当前步长序号。
func (cal *Calendar) Step() int { return cal.step }

// StepNum 获取步长总数。
func (cal *Calendar) StepNum() int { return cal.steps }

// StepSize 获取步长。
func (cal *Calendar) StepSize() time.Duration { return cal.stepSize }

// Month 获取当前步长所在的月份索引。
func (cal *Calendar) Month() int { return cal.MonthOf(cal.step) }

// MonthOf 获取指定步长所在的月份索引。
func (cal *Calendar) MonthOf(step int) int {
	return int(cal.TimeOf(step).Month()) - 1
}

// TimeOf 获取指定步长的开始时间。
func (cal *Calendar) TimeOf(step int) time.Time {
	return cal.start.Add(time.Duration(step) * cal.stepSize)
}

// SetStep 设置当前步长。
func (cal *Calendar) SetStep(step int) error {
	if step < 0 || step >= cal.steps {
		return fmt.Errorf("步长 %d 超出范围 [0, %d)", step, cal.steps)
	}
	cal.step = step
	return nil
}
