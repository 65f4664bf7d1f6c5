package geom

import "math"

// OnCircle 把纬度和横向偏移映射到世界坐标
//
// 地球是绕 x 轴、半径为 radius 的圆柱，纬度 0 位于正上方 (0, R, 0)，
// 纬度增大时沿 -z 方向前进：
//
//	position = (x, R·cos(latitude), -R·sin(latitude))
//
// 参数：
//   - latitude: 沿道路的角度坐标（弧度）
//   - x: 道路横向偏移
//   - radius: 地球半径
func OnCircle(latitude, x, radius float64) Vec3 {
	sin, cos := math.Sincos(latitude)
	return Vec3{
		X: x,
		Y: radius * cos,
		Z: -radius * sin,
	}
}

// Radial 返回纬度处垂直于圆柱表面向外的单位向量
func Radial(latitude float64) Vec3 {
	return OnCircle(latitude, 0, 1)
}

// Radians 角度转弧度
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
